package notification

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"strings"
	"time"

	"go.uber.org/zap"

	domain "github.com/BruksfildServices01/barber-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-booking/internal/observability/metrics"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

const (
	subjectClientConfirmation = "Barber shop appointment scheduled successfully!"
	subjectBarberConfirmation = "A client has scheduled an appointment"
	subjectCancellation       = "Appointment Cancellation Notification"
)

type emailData struct {
	ClientFirstName string
	ClientName      string
	BarberFirstName string
	BarberName      string
	ServiceName     string
	Date            string
	Time            string
	AppointmentsURL string
}

// BookingNotifier renders booking emails and hands them to a Gateway.
type BookingNotifier struct {
	gw              Gateway
	log             *zap.Logger
	appointmentsURL string
	timeout         time.Duration
}

func NewBookingNotifier(gw Gateway, log *zap.Logger, frontendHost string, timeout time.Duration) *BookingNotifier {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &BookingNotifier{
		gw:              gw,
		log:             log,
		appointmentsURL: strings.TrimRight(frontendHost, "/") + "/appointments",
		timeout:         timeout,
	}
}

// BookingConfirmed emails the client and the barber. Both are attempted
// even when the first fails.
func (n *BookingNotifier) BookingConfirmed(ctx context.Context, d domain.NotificationDetails) error {
	data := n.data(d)
	return errors.Join(
		n.send(ctx, "client_confirmation", d.ClientEmail, subjectClientConfirmation, data),
		n.send(ctx, "barber_confirmation", d.BarberEmail, subjectBarberConfirmation, data),
	)
}

func (n *BookingNotifier) BookingCancelled(ctx context.Context, d domain.NotificationDetails) error {
	data := n.data(d)
	return errors.Join(
		n.send(ctx, "client_cancellation", d.ClientEmail, subjectCancellation, data),
		n.send(ctx, "barber_cancellation", d.BarberEmail, subjectCancellation, data),
	)
}

func (n *BookingNotifier) data(d domain.NotificationDetails) emailData {
	return emailData{
		ClientFirstName: d.ClientFirstName,
		ClientName:      d.ClientName,
		BarberFirstName: d.BarberFirstName,
		BarberName:      d.BarberName,
		ServiceName:     strings.Join(d.ServiceNames, ", "),
		Date:            d.Date.Format("January 02, 2006"),
		Time:            clock12(d.StartTime),
		AppointmentsURL: n.appointmentsURL,
	}
}

func (n *BookingNotifier) send(ctx context.Context, kind, to, subject string, data emailData) error {
	if to == "" {
		metrics.ObserveNotification(kind, "skipped")
		return fmt.Errorf("%s: no recipient address", kind)
	}

	var body bytes.Buffer
	if err := templates.ExecuteTemplate(&body, kind+".html", data); err != nil {
		metrics.ObserveNotification(kind, "error")
		return fmt.Errorf("%s: render: %w", kind, err)
	}

	ctx, cancel := context.WithTimeout(ctx, n.timeout)
	defer cancel()

	if err := n.gw.Send(ctx, to, subject, body.String()); err != nil {
		metrics.ObserveNotification(kind, "error")
		return fmt.Errorf("%s: %w", kind, err)
	}

	metrics.ObserveNotification(kind, "ok")
	n.log.Debug("notification sent", zap.String("kind", kind), zap.String("to", to))
	return nil
}

// clock12 turns "15:04" into "03:04 PM". Unparseable input is returned as is.
func clock12(hhmm string) string {
	t, err := time.Parse("15:04", hhmm)
	if err != nil {
		return hhmm
	}
	return t.Format("03:04 PM")
}
