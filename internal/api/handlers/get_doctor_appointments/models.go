package get_doctor_appointments

import (
	"net/url"
	"strconv"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	appointmentModels "github.com/m04kA/SMC-AppointmentService/internal/service/appointments/models"
)

// ToServiceRequest собирает запрос сервиса из параметров строки запроса
// from и to принимаются как YYYY-MM-DD или RFC 3339
func ToServiceRequest(actor domain.Actor, doctorID int64, query url.Values) (*appointmentModels.GetDoctorAppointmentsRequest, error) {
	req := &appointmentModels.GetDoctorAppointmentsRequest{
		Actor:    actor,
		DoctorID: doctorID,
	}

	if v := query.Get("from"); v != "" {
		from, err := parseTime(v)
		if err != nil {
			return nil, err
		}
		req.From = &from
	}

	if v := query.Get("to"); v != "" {
		to, err := parseTime(v)
		if err != nil {
			return nil, err
		}
		req.To = &to
	}

	if v := query.Get("status"); v != "" {
		req.Status = &v
	}

	if v := query.Get("includeCancelled"); v != "" {
		include, err := strconv.ParseBool(v)
		if err != nil {
			return nil, err
		}
		req.IncludeCancelled = include
	}

	return req, nil
}

func parseTime(v string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, nil
	}
	return time.Parse(domain.DateFormat, v)
}
