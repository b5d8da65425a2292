package preview_booking

import (
	"context"

	previewBooking "github.com/m04kA/MFB-BookingService/internal/usecase/preview_booking"
)

type PreviewBookingUseCase interface {
	Execute(ctx context.Context, req *previewBooking.Request) (*previewBooking.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
