package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"calunit/internal/unitcache"
)

const testConfig = `calendar:
  timezone: UTC
  week_start: monday
ics:
  - id: team
    name: Team
    path: team.ics
`

const testICS = "BEGIN:VCALENDAR\r\n" +
	"VERSION:2.0\r\n" +
	"PRODID:-//calunit//test//EN\r\n" +
	"BEGIN:VEVENT\r\n" +
	"UID:standup@test\r\n" +
	"DTSTAMP:20210101T000000Z\r\n" +
	"DTSTART:20210301T090000Z\r\n" +
	"DTEND:20210301T093000Z\r\n" +
	"RRULE:FREQ=WEEKLY;COUNT=4\r\n" +
	"SUMMARY:Standup\r\n" +
	"END:VEVENT\r\n" +
	"BEGIN:VEVENT\r\n" +
	"UID:offsite@test\r\n" +
	"DTSTAMP:20210101T000000Z\r\n" +
	"DTSTART;VALUE=DATE:20210302\r\n" +
	"SUMMARY:Offsite\r\n" +
	"END:VEVENT\r\n" +
	"END:VCALENDAR\r\n"

func writeConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(testConfig), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "team.ics"), []byte(testICS), 0o600))
	return filepath.Join(dir, "config.yaml")
}

// run executes the root command with fresh flag state.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	flags.date, flags.logLevel, flags.json = "", "", false
	agendaDays = 7
	env.now = func() time.Time { return time.Date(2021, 3, 15, 10, 0, 0, 0, time.UTC) }
	t.Cleanup(func() {
		env.now = time.Now
		require.NoError(t, unitcache.Default().Configure(unitcache.DefaultConfig()))
	})

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestMonthCommand(t *testing.T) {
	out, err := run(t, "month", "--config", writeConfig(t), "--date", "2021-02-10")
	require.NoError(t, err)
	assert.Equal(t, "February 2021\n"+
		" Mon Tue Wed Thu Fri Sat Sun\n"+
		"   1   2   3   4   5   6   7\n"+
		"   8   9  10  11  12  13  14\n"+
		"  15  16  17  18  19  20  21\n"+
		"  22  23  24  25  26  27  28\n", out)
}

func TestMonthCommand_BlanksNeighbouringDays(t *testing.T) {
	out, err := run(t, "month", "--config", writeConfig(t))
	require.NoError(t, err)
	assert.Contains(t, out, "March 2021\n")
	assert.Contains(t, out, "  29  30  31\n")
}

func TestYearCommand_JSON(t *testing.T) {
	out, err := run(t, "year", "--config", writeConfig(t), "--json")
	require.NoError(t, err)

	var v struct {
		Year   int `json:"year"`
		Months []struct {
			Name string `json:"name"`
			Days int    `json:"days"`
		} `json:"months"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &v))
	assert.Equal(t, 2021, v.Year)
	require.Len(t, v.Months, 12)
	assert.Equal(t, "February", v.Months[1].Name)
	assert.Equal(t, 28, v.Months[1].Days)
}

func TestWeekCommand(t *testing.T) {
	out, err := run(t, "week", "--config", writeConfig(t), "--date", "2021-03-17")
	require.NoError(t, err)
	assert.Equal(t, "Mon  2021-03-15\n"+
		"Tue  2021-03-16\n"+
		"Wed  2021-03-17\n"+
		"Thu  2021-03-18\n"+
		"Fri  2021-03-19\n"+
		"Sat  2021-03-20\n"+
		"Sun  2021-03-21\n", out)
}

func TestAgendaCommand(t *testing.T) {
	out, err := run(t, "agenda", "--config", writeConfig(t), "--date", "2021-03-01", "--days", "9")
	require.NoError(t, err)
	assert.Equal(t, "2021-03-01 Mon\n"+
		"  09:00-09:30  Standup [team]\n"+
		"2021-03-02 Tue\n"+
		"  all day      Offsite [team]\n"+
		"2021-03-08 Mon\n"+
		"  09:00-09:30  Standup [team]\n", out)
}

func TestCommandErrors(t *testing.T) {
	cfg := writeConfig(t)

	_, err := run(t, "month", "--config", cfg, "--date", "15/03/2021")
	assert.ErrorContains(t, err, "invalid date")

	_, err = run(t, "month", "--config", cfg, "--log-level", "loud")
	assert.ErrorContains(t, err, "unknown log level")

	_, err = run(t, "agenda", "--config", cfg, "--days", "0")
	assert.Error(t, err)
}

func TestStartPurgeSchedule(t *testing.T) {
	reg := unitcache.NewRegistry(unitcache.DefaultConfig())

	c, err := startPurgeSchedule("", reg)
	require.NoError(t, err)
	assert.Nil(t, c)

	_, err = startPurgeSchedule("every hour", reg)
	assert.Error(t, err)

	c, err = startPurgeSchedule("@every 1h", reg)
	require.NoError(t, err)
	defer c.Stop()
	require.Len(t, c.Entries(), 1)

	st := unitcache.Lookup[int, int](reg, unitcache.TagWeekDays)
	st.PutElement(1, 1, 1)
	require.Equal(t, 1, reg.Len())
	c.Entries()[0].Job.Run()
	assert.Equal(t, uint64(1), reg.Stats().Purges)
}
