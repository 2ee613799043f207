package types

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

const (
	// MinutesPerDay количество минут в сутках
	MinutesPerDay = 24 * 60

	// EndOfDay полночь следующих суток ("24:00"), допустима только как конец окна
	EndOfDay ClockTime = MinutesPerDay

	clockLayout = "15:04"
	endOfDay    = "24:00"
)

var (
	// ErrInvalidClockFormat возвращается, когда строка не в формате HH:MM
	ErrInvalidClockFormat = errors.New("invalid clock time format, expected HH:MM")

	// ErrClockOutOfRange возвращается, когда количество минут выходит за пределы суток
	ErrClockOutOfRange = errors.New("clock time out of range")
)

// ClockTime время суток в минутах от полуночи (0..1440, 1440 = "24:00").
// Внутри сервиса время расписания хранится и сравнивается только как целое число,
// строка HH:MM появляется только на границе сериализации (JSON).
type ClockTime int

// ClockTimeOf возвращает время суток момента t в его локации
func ClockTimeOf(t time.Time) ClockTime {
	return ClockTime(t.Hour()*60 + t.Minute())
}

// ParseClockTime парсит строку формата HH:MM, "24:00" означает конец суток
func ParseClockTime(s string) (ClockTime, error) {
	if s == endOfDay {
		return EndOfDay, nil
	}
	t, err := time.Parse(clockLayout, s)
	if err != nil || len(s) != len(clockLayout) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClockFormat, s)
	}
	return ClockTime(t.Hour()*60 + t.Minute()), nil
}

// MustParseClockTime как ParseClockTime, но паникует при ошибке. Для констант и тестов.
func MustParseClockTime(s string) ClockTime {
	c, err := ParseClockTime(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Minutes возвращает количество минут от полуночи
func (c ClockTime) Minutes() int {
	return int(c)
}

// Hour возвращает час
func (c ClockTime) Hour() int {
	return int(c) / 60
}

// Minute возвращает минуту часа
func (c ClockTime) Minute() int {
	return int(c) % 60
}

// Validate проверяет, что значение лежит в пределах суток (включая "24:00")
func (c ClockTime) Validate() error {
	if c < 0 || c > EndOfDay {
		return fmt.Errorf("%w: %d", ErrClockOutOfRange, int(c))
	}
	return nil
}

// AddMinutes сдвигает время на n минут. Результат может выйти за пределы суток,
// это допустимо для вычисления конца интервала.
func (c ClockTime) AddMinutes(n int) ClockTime {
	return c + ClockTime(n)
}

// IsBefore возвращает true, если c строго раньше other
func (c ClockTime) IsBefore(other ClockTime) bool {
	return c < other
}

// IsAfter возвращает true, если c строго позже other
func (c ClockTime) IsAfter(other ClockTime) bool {
	return c > other
}

// On возвращает момент времени с этим временем суток в дату date (в локации date).
// Значения за пределами суток переносятся на следующий день.
func (c ClockTime) On(date time.Time) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, c.Hour(), c.Minute(), 0, 0, date.Location())
}

// String форматирует в HH:MM
func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour(), c.Minute())
}

// MarshalJSON сериализует в строку HH:MM
func (c ClockTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

// UnmarshalJSON парсит строку HH:MM
func (c *ClockTime) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidClockFormat, err)
	}
	parsed, err := ParseClockTime(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Value реализует driver.Valuer, в БД хранится SMALLINT минут
func (c ClockTime) Value() (driver.Value, error) {
	return int64(c), nil
}

// Scan реализует sql.Scanner
func (c *ClockTime) Scan(src interface{}) error {
	switch v := src.(type) {
	case int64:
		*c = ClockTime(v)
	case int32:
		*c = ClockTime(v)
	case []byte:
		var n int
		if _, err := fmt.Sscanf(string(v), "%d", &n); err != nil {
			return fmt.Errorf("ClockTime.Scan: %w", err)
		}
		*c = ClockTime(n)
	default:
		return fmt.Errorf("ClockTime.Scan: unsupported type %T", src)
	}
	return c.Validate()
}
