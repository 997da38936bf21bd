package rcodec

import "github.com/mantonx/reelforge/internal/rerr"

func unsupportedContainer(container Container) error {
	return rerr.Wrapf(rerr.CodecUnsupported, "unsupported container %q", container)
}

func unsupportedVideoCodec(container Container, codec VideoCodec) error {
	return rerr.Wrapf(rerr.CodecUnsupported, "container %q does not support video codec %q", container, codec)
}

func unsupportedAudioCodec(container Container, codec AudioCodec) error {
	return rerr.Wrapf(rerr.CodecUnsupported, "container %q does not support audio codec %q", container, codec)
}
