package service

import (
	"context"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	qt "github.com/frankban/quicktest"
	"github.com/vocdoni/confidential-survey/crypto/ecc/curves"
	"github.com/vocdoni/confidential-survey/encryption"
	"github.com/vocdoni/confidential-survey/storage"
	"github.com/vocdoni/confidential-survey/survey"
	"github.com/vocdoni/confidential-survey/types"
	"go.vocdoni.io/dvote/db/metadb"
	"go.vocdoni.io/dvote/log"
)

func testEngine(t *testing.T, lifetime time.Duration) *survey.Engine {
	t.Helper()
	c := qt.New(t)

	enc, err := encryption.NewElGamalService(curves.CurveTypeBN254)
	c.Assert(err, qt.IsNil)

	engine, err := survey.New(survey.Config{
		Admin: common.HexToAddress("0x00000000000000000000000000000000000000a0"),
		Metadata: types.SurveyMetadata{
			Title:   "monitor test",
			Options: []string{"A", "B"},
		},
		Deadline:   time.Now().Add(lifetime),
		Storage:    storage.New(metadb.NewTest(t)),
		Encryption: enc,
	})
	c.Assert(err, qt.IsNil)
	return engine
}

func TestDeadlineMonitorLifecycle(t *testing.T) {
	log.Init(log.LogLevelInfo, "stdout", nil)
	c := qt.New(t)

	engine := testEngine(t, 50*time.Millisecond)
	monitor := NewDeadlineMonitor(engine, 10*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	c.Assert(monitor.Start(ctx), qt.IsNil)
	// A second start while running is refused.
	c.Assert(monitor.Start(ctx), qt.Not(qt.IsNil))

	// Let the deadline pass under the monitor's watch.
	time.Sleep(150 * time.Millisecond)

	monitor.Stop()
	// Stopping twice is harmless, and a fresh start works again.
	monitor.Stop()
	c.Assert(monitor.Start(ctx), qt.IsNil)
	monitor.Stop()
}

func TestAPIServiceStartStop(t *testing.T) {
	log.Init(log.LogLevelInfo, "stdout", nil)
	c := qt.New(t)

	engine := testEngine(t, time.Hour)
	svc := NewAPI(engine, "127.0.0.1", 18791)

	host, port := svc.HostPort()
	c.Assert(host, qt.Equals, "127.0.0.1")
	c.Assert(port, qt.Equals, 18791)

	ctx := context.Background()
	c.Assert(svc.Start(ctx), qt.IsNil)
	c.Assert(svc.Start(ctx), qt.Not(qt.IsNil))
	svc.Stop()
}
