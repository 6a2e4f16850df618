package survey

import (
	"os"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	qt "github.com/frankban/quicktest"
	"github.com/vocdoni/confidential-survey/crypto/ecc/curves"
	"github.com/vocdoni/confidential-survey/encryption"
	"github.com/vocdoni/confidential-survey/storage"
	"github.com/vocdoni/confidential-survey/types"
	"go.vocdoni.io/dvote/db/metadb"
	"go.vocdoni.io/dvote/log"
)

func TestMain(m *testing.M) {
	log.Init(log.LogLevelInfo, "stdout", nil)
	os.Exit(m.Run())
}

var (
	testAdmin = common.HexToAddress("0x00000000000000000000000000000000000000a0")
	testVoter = common.HexToAddress("0x00000000000000000000000000000000000000b0")
)

// fakeClock lets tests move the engine clock by hand.
type fakeClock struct {
	now time.Time
}

func (f *fakeClock) Now() time.Time {
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.now = f.now.Add(d)
}

type fixture struct {
	engine *Engine
	enc    *encryption.ElGamalService
	clock  *fakeClock
}

func newFixture(t *testing.T, options []string, lifetime time.Duration) *fixture {
	t.Helper()
	enc, err := encryption.NewElGamalService(curves.CurveTypeBN254)
	qt.Assert(t, err, qt.IsNil)

	clock := &fakeClock{now: time.Unix(1700000000, 0)}
	engine, err := New(Config{
		Admin: testAdmin,
		Metadata: types.SurveyMetadata{
			Title:   "test survey",
			Options: options,
		},
		Deadline:   clock.now.Add(lifetime),
		Now:        clock.Now,
		Storage:    storage.New(metadb.NewTest(t)),
		Encryption: enc,
	})
	qt.Assert(t, err, qt.IsNil)
	return &fixture{engine: engine, enc: enc, clock: clock}
}

// vote produces a valid (blob, proof) pair encrypting the value 1 and submits
// it for the given option.
func (f *fixture) vote(t *testing.T, voter common.Address, option int) error {
	t.Helper()
	blob, proof, err := f.enc.EncryptValue(1)
	qt.Assert(t, err, qt.IsNil)
	return f.engine.SubmitResponse(voter, option, blob, proof)
}

// decryptTally reads an option tally and decrypts it as the admin.
func (f *fixture) decryptTally(t *testing.T, option int) uint64 {
	t.Helper()
	tally, err := f.engine.EncryptedTally(option)
	qt.Assert(t, err, qt.IsNil)
	value, err := f.enc.Decrypt(tally, testAdmin, 1000)
	qt.Assert(t, err, qt.IsNil)
	return value
}

func TestNewSurvey(t *testing.T) {
	c := qt.New(t)
	f := newFixture(t, []string{"A", "B", "C"}, time.Hour)

	sv, err := f.engine.Survey()
	c.Assert(err, qt.IsNil)
	c.Assert(sv.Admin, qt.Equals, testAdmin)
	c.Assert(sv.IsActive, qt.IsTrue)
	c.Assert(sv.EncryptionKey, qt.Not(qt.IsNil))

	count, err := f.engine.OptionsCount()
	c.Assert(err, qt.IsNil)
	c.Assert(count, qt.Equals, 3)

	label, err := f.engine.OptionLabel(1)
	c.Assert(err, qt.IsNil)
	c.Assert(label, qt.Equals, "B")
	_, err = f.engine.OptionLabel(3)
	c.Assert(err, qt.Equals, ErrInvalidOption)

	// All tallies start at the zero ciphertext.
	tallies, err := f.engine.AllEncryptedTallies()
	c.Assert(err, qt.IsNil)
	c.Assert(tallies, qt.HasLen, 3)
	for _, tally := range tallies {
		c.Assert(f.enc.IsZero(tally), qt.IsTrue)
	}

	// The admin is an authorized viewer from construction.
	viewers, err := f.engine.AuthorizedViewers()
	c.Assert(err, qt.IsNil)
	c.Assert(viewers, qt.DeepEquals, []common.Address{testAdmin})
	hasAccess, err := f.engine.HasValidAccess(testAdmin)
	c.Assert(err, qt.IsNil)
	c.Assert(hasAccess, qt.IsTrue)
}

func TestNewSurveyValidation(t *testing.T) {
	c := qt.New(t)
	enc, err := encryption.NewElGamalService(curves.CurveTypeBN254)
	c.Assert(err, qt.IsNil)

	base := Config{
		Admin:      testAdmin,
		Metadata:   types.SurveyMetadata{Title: "t", Options: []string{"A"}},
		Deadline:   time.Now().Add(time.Hour),
		Storage:    storage.New(metadb.NewTest(t)),
		Encryption: enc,
	}

	cfg := base
	cfg.Admin = common.Address{}
	_, err = New(cfg)
	c.Assert(err, qt.Not(qt.IsNil))

	cfg = base
	cfg.Metadata.Options = nil
	_, err = New(cfg)
	c.Assert(err, qt.Not(qt.IsNil))

	cfg = base
	cfg.Deadline = time.Time{}
	_, err = New(cfg)
	c.Assert(err, qt.Not(qt.IsNil))

	// Creating twice on the same storage fails.
	_, err = New(base)
	c.Assert(err, qt.IsNil)
	_, err = New(base)
	c.Assert(err, qt.Not(qt.IsNil))

	// But loading works.
	engine, err := Load(Config{Storage: base.Storage, Encryption: enc})
	c.Assert(err, qt.IsNil)
	c.Assert(engine, qt.Not(qt.IsNil))
}

func TestLoadWithoutSurvey(t *testing.T) {
	c := qt.New(t)
	enc, err := encryption.NewElGamalService(curves.CurveTypeBN254)
	c.Assert(err, qt.IsNil)

	_, err = Load(Config{Storage: storage.New(metadb.NewTest(t)), Encryption: enc})
	c.Assert(err, qt.Not(qt.IsNil))
}

func TestVoteScenario(t *testing.T) {
	c := qt.New(t)
	f := newFixture(t, []string{"A", "B"}, 1000*time.Second)

	c.Assert(f.vote(t, testVoter, 0), qt.IsNil)

	responded, err := f.engine.HasResponded(testVoter)
	c.Assert(err, qt.IsNil)
	c.Assert(responded, qt.IsTrue)

	votes, err := f.engine.UserVotes(testVoter)
	c.Assert(err, qt.IsNil)
	c.Assert(votes, qt.DeepEquals, []int{0})

	c.Assert(f.decryptTally(t, 0), qt.Equals, uint64(1))

	tally1, err := f.engine.EncryptedTally(1)
	c.Assert(err, qt.IsNil)
	c.Assert(f.enc.IsZero(tally1), qt.IsTrue)
}

func TestCloseAndReopen(t *testing.T) {
	c := qt.New(t)
	f := newFixture(t, []string{"A", "B"}, time.Hour)

	c.Assert(f.engine.CloseSurvey(testVoter), qt.Equals, ErrNotAdmin)
	c.Assert(f.engine.CloseSurvey(testAdmin), qt.IsNil)

	c.Assert(f.vote(t, testVoter, 0), qt.Equals, ErrSurveyNotActive)
	c.Assert(f.engine.CloseSurvey(testAdmin), qt.Equals, ErrSurveyNotActive)

	c.Assert(f.engine.ReopenSurvey(testVoter), qt.Equals, ErrNotAdmin)
	c.Assert(f.engine.ReopenSurvey(testAdmin), qt.IsNil)
	c.Assert(f.vote(t, testVoter, 0), qt.IsNil)
}

func TestDeadlineExpiry(t *testing.T) {
	c := qt.New(t)
	f := newFixture(t, []string{"A", "B"}, time.Hour)

	f.clock.Advance(time.Hour + time.Second)

	// Flag is still on, but the clock has won: distinct failure kind.
	c.Assert(f.vote(t, testVoter, 0), qt.Equals, ErrSurveyExpired)
	c.Assert(f.engine.ReopenSurvey(testAdmin), qt.Equals, ErrDeadlinePassedForReopen)
}

func TestRecordDeadlinePassed(t *testing.T) {
	c := qt.New(t)
	f := newFixture(t, []string{"A", "B"}, time.Hour)

	passed, err := f.engine.RecordDeadlinePassed()
	c.Assert(err, qt.IsNil)
	c.Assert(passed, qt.IsFalse)

	f.clock.Advance(time.Hour + time.Second)
	passed, err = f.engine.RecordDeadlinePassed()
	c.Assert(err, qt.IsNil)
	c.Assert(passed, qt.IsTrue)

	// Repeated checks keep reporting the passage but append the event once.
	passed, err = f.engine.RecordDeadlinePassed()
	c.Assert(err, qt.IsNil)
	c.Assert(passed, qt.IsTrue)
	c.Assert(countEvents(t, f.engine, types.EventSurveyClosed), qt.Equals, 1)

	// Extending the deadline rearms the passage event.
	c.Assert(f.engine.ExtendDeadline(testAdmin, f.clock.now.Add(time.Hour)), qt.IsNil)
	passed, err = f.engine.RecordDeadlinePassed()
	c.Assert(err, qt.IsNil)
	c.Assert(passed, qt.IsFalse)

	f.clock.Advance(2 * time.Hour)
	passed, err = f.engine.RecordDeadlinePassed()
	c.Assert(err, qt.IsNil)
	c.Assert(passed, qt.IsTrue)
	c.Assert(countEvents(t, f.engine, types.EventSurveyClosed), qt.Equals, 2)
}

func countEvents(t *testing.T, engine *Engine, name string) int {
	t.Helper()
	events, err := engine.Events(0, 0)
	qt.Assert(t, err, qt.IsNil)
	count := 0
	for _, event := range events {
		if event.Name == name {
			count++
		}
	}
	return count
}

func TestLoadEncryptionKeyMismatch(t *testing.T) {
	c := qt.New(t)
	stg := storage.New(metadb.NewTest(t))
	enc, err := encryption.NewElGamalService(curves.CurveTypeBN254)
	c.Assert(err, qt.IsNil)

	_, err = New(Config{
		Admin:      testAdmin,
		Metadata:   types.SurveyMetadata{Title: "restart", Options: []string{"A", "B"}},
		Deadline:   time.Now().Add(time.Hour),
		Storage:    stg,
		Encryption: enc,
	})
	c.Assert(err, qt.IsNil)

	// A fresh key pair cannot bind to the stored survey: its published key
	// would not match and every submission proof would fail.
	other, err := encryption.NewElGamalService(curves.CurveTypeBN254)
	c.Assert(err, qt.IsNil)
	_, err = Load(Config{Storage: stg, Encryption: other})
	c.Assert(err, qt.Equals, ErrEncryptionKeyMismatch)

	// A service rebuilt from the original private key binds fine.
	rebuilt, err := encryption.NewElGamalServiceFromKey(curves.CurveTypeBN254, enc.PrivateKey())
	c.Assert(err, qt.IsNil)
	_, err = Load(Config{Storage: stg, Encryption: rebuilt})
	c.Assert(err, qt.IsNil)
}

func TestExtendDeadline(t *testing.T) {
	c := qt.New(t)
	f := newFixture(t, []string{"A", "B"}, time.Hour)

	sv, err := f.engine.Survey()
	c.Assert(err, qt.IsNil)

	c.Assert(f.engine.ExtendDeadline(testVoter, sv.Deadline.Add(time.Hour)), qt.Equals, ErrNotAdmin)
	c.Assert(f.engine.ExtendDeadline(testAdmin, sv.Deadline), qt.Equals, ErrDeadlineNotLater)
	c.Assert(f.engine.ExtendDeadline(testAdmin, sv.Deadline.Add(-time.Minute)), qt.Equals, ErrDeadlineNotLater)

	// An expired survey comes back once the deadline moves forward.
	f.clock.Advance(2 * time.Hour)
	c.Assert(f.vote(t, testVoter, 0), qt.Equals, ErrSurveyExpired)
	c.Assert(f.engine.ExtendDeadline(testAdmin, f.clock.now.Add(time.Hour)), qt.IsNil)
	c.Assert(f.vote(t, testVoter, 0), qt.IsNil)
}

func TestSurveyStatsAndResults(t *testing.T) {
	c := qt.New(t)
	f := newFixture(t, []string{"A", "B", "C"}, time.Hour)

	voter2 := common.HexToAddress("0x00000000000000000000000000000000000000b1")
	c.Assert(f.vote(t, testVoter, 0), qt.IsNil)
	c.Assert(f.vote(t, voter2, 2), qt.IsNil)

	stats, err := f.engine.SurveyStats()
	c.Assert(err, qt.IsNil)
	c.Assert(stats.OptionCount, qt.Equals, 3)
	c.Assert(stats.OptionsWithVotes, qt.Equals, 2)
	c.Assert(stats.EstimatedParticipants, qt.Equals, 2)
	c.Assert(stats.AuthorizedViewers, qt.Equals, 1)
	c.Assert(stats.IsActive, qt.IsTrue)

	summary, err := f.engine.ResultSummary()
	c.Assert(err, qt.IsNil)
	c.Assert(summary.Options, qt.DeepEquals, []string{"A", "B", "C"})
	c.Assert(summary.NonEmpty, qt.DeepEquals, []bool{true, false, true})
	c.Assert(summary.Tallies, qt.HasLen, 3)

	top, err := f.engine.TopOptions(10)
	c.Assert(err, qt.IsNil)
	c.Assert(top, qt.DeepEquals, []int{0, 2})

	top, err = f.engine.TopOptions(1)
	c.Assert(err, qt.IsNil)
	c.Assert(top, qt.DeepEquals, []int{0})

	_, err = f.engine.TopOptions(0)
	c.Assert(err, qt.Equals, ErrInvalidCount)
}

func TestEventLogAndSubscription(t *testing.T) {
	c := qt.New(t)
	f := newFixture(t, []string{"A", "B"}, time.Hour)

	ch, cancel := f.engine.Subscribe()
	defer cancel()

	c.Assert(f.vote(t, testVoter, 1), qt.IsNil)

	select {
	case event := <-ch:
		c.Assert(event.Name, qt.Equals, types.EventResponseSubmitted)
		c.Assert(event.Principal, qt.Equals, testVoter)
		c.Assert(event.OptionIndex, qt.Equals, 1)
	case <-time.After(time.Second):
		c.Fatal("no event received")
	}

	// Creation emitted SurveyActivated, so the log holds two entries.
	events, err := f.engine.Events(0, 0)
	c.Assert(err, qt.IsNil)
	c.Assert(events, qt.HasLen, 2)
	c.Assert(events[0].Name, qt.Equals, types.EventSurveyActivated)
	c.Assert(events[1].Name, qt.Equals, types.EventResponseSubmitted)
	c.Assert(events[1].Seq, qt.Equals, uint64(2))
	c.Assert(events[1].ID, qt.Not(qt.Equals), "")
}
