package ssim

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidSampleType            = errors.New("ssim: invalid sample type")
	ErrShapeMismatch                = errors.New("ssim: shape mismatch")
	ErrChannelCountUnsupported      = errors.New("ssim: channel count unsupported")
	ErrInvalidStabilizationConstant = errors.New("ssim: invalid stabilization constant")
	ErrInvalidWindow                = errors.New("ssim: invalid window")
	ErrInvalidQuality               = errors.New("ssim: invalid JPEG quality")
)

// ChannelError reports which channel of a multi-channel comparison failed.
// It unwraps to the underlying sentinel, so errors.Is keeps working.
type ChannelError struct {
	Index int
	Name  string
	Err   error
}

func (e *ChannelError) Error() string {
	return fmt.Sprintf("ssim: channel %d (%s): %v", e.Index, e.Name, e.Err)
}

func (e *ChannelError) Unwrap() error {
	return e.Err
}
