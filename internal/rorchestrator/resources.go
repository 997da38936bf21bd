package rorchestrator

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"
)

// resourceSampler periodically snapshots host CPU/memory load in the
// background so the frame loop can annotate its progress messages without
// making a syscall on every frame.
type resourceSampler struct {
	mu         sync.Mutex
	cpuPercent float64
	memPercent float64
	sampled    bool
}

// startResourceSampler launches a background sampler that stops when ctx is
// done. A fresh sample is taken immediately so the first progress message
// already carries a value.
func startResourceSampler(ctx context.Context, interval time.Duration) *resourceSampler {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	s := &resourceSampler{}
	go s.run(ctx, interval)
	return s
}

func (s *resourceSampler) run(ctx context.Context, interval time.Duration) {
	s.sample(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sample(ctx)
		}
	}
}

func (s *resourceSampler) sample(ctx context.Context) {
	percents, cpuErr := cpu.PercentWithContext(ctx, 0, false)
	vmem, memErr := mem.VirtualMemoryWithContext(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if cpuErr == nil && len(percents) > 0 {
		s.cpuPercent = percents[0]
	}
	if memErr == nil && vmem != nil {
		s.memPercent = vmem.UsedPercent
	}
	s.sampled = true
}

// message formats the last sample as a progress message suffix, or "" if
// no sample has completed yet.
func (s *resourceSampler) message() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.sampled {
		return ""
	}
	return fmt.Sprintf("cpu=%.1f%% mem=%.1f%%", s.cpuPercent, s.memPercent)
}
