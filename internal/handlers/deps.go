package handlers

import (
	"go.uber.org/zap"

	"github.com/BruksfildServices01/barber-booking/internal/audit"
	"github.com/BruksfildServices01/barber-booking/internal/timezone"
	appointmentuc "github.com/BruksfildServices01/barber-booking/internal/usecase/appointment"
)

// Deps are the collaborators shared by the use cases handlers build.
type Deps struct {
	Audit    audit.Recorder
	Notifier appointmentuc.Notifier
	Clock    *timezone.Clock
	Log      *zap.Logger
}
