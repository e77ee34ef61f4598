package instances

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"reminder_dispatch_job/internal/domain/instance"

	"github.com/joho/godotenv"
)

// ConfigFileName is the per-instance settings file, in dotenv format.
const ConfigFileName = "instance.env"

const (
	defaultTestCaseAddress   = "123 Test St"
	defaultTestCaseCourtName = "Test Court"
	testCaseHour             = 10
)

var ErrMissingTimezone = errors.New("TIMEZONE is not set")

// CaseFinder is the case source shared by all instances.
type CaseFinder interface {
	FindAll(ctx context.Context, instanceName string, start, end time.Time) ([]instance.Case, error)
}

// envInstance serves an instance configured by its instance.env file and backed by the shared case table.
type envInstance struct {
	name      string
	timezone  string
	location  *time.Location
	cases     CaseFinder
	testAddr  string
	testCourt string
	now       func() time.Time
}

// NewEnvFactory returns a Factory that reads <dir>/instance.env and serves cases from finder.
func NewEnvFactory(finder CaseFinder, now func() time.Time) Factory {
	if now == nil {
		now = time.Now
	}
	return func(name, dir string) (instance.Methods, error) {
		settings, err := godotenv.Read(filepath.Join(dir, ConfigFileName))
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", ConfigFileName, err)
		}

		tz := settings["TIMEZONE"]
		if tz == "" {
			return nil, ErrMissingTimezone
		}
		loc, err := time.LoadLocation(tz)
		if err != nil {
			return nil, fmt.Errorf("invalid TIMEZONE %q: %w", tz, err)
		}

		inst := &envInstance{
			name:      name,
			timezone:  tz,
			location:  loc,
			cases:     finder,
			testAddr:  settings["TEST_CASE_ADDRESS"],
			testCourt: settings["TEST_CASE_COURT_NAME"],
			now:       now,
		}
		if inst.testAddr == "" {
			inst.testAddr = defaultTestCaseAddress
		}
		if inst.testCourt == "" {
			inst.testCourt = defaultTestCaseCourtName
		}
		return inst, nil
	}
}

func (i *envInstance) Timezone() string {
	return i.timezone
}

func (i *envInstance) FindAll(ctx context.Context, startDate, endDate time.Time) ([]instance.Case, error) {
	return i.cases.FindAll(ctx, i.name, startDate, endDate)
}

// TestCase returns a synthetic case dated tomorrow morning in the instance's timezone.
func (i *envInstance) TestCase(_ context.Context, id int) (instance.Case, error) {
	local := i.now().In(i.location)
	date := time.Date(local.Year(), local.Month(), local.Day()+1, testCaseHour, 0, 0, 0, i.location)

	return instance.Case{
		UID:       fmt.Sprintf("%s-test-%d", i.name, id),
		Number:    fmt.Sprintf("TEST-%d", id),
		Name:      fmt.Sprintf("Test Case %d", id),
		Date:      date,
		CourtName: i.testCourt,
		Address:   i.testAddr,
	}, nil
}
