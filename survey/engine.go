// Package survey implements the encrypted-tally survey engine: the lifecycle
// state machine, one-response-per-participant enforcement, homomorphic tally
// accumulation over opaque ciphertexts, and the role and expiry based viewer
// registry that issues decryption grants. The engine never observes a vote in
// plaintext; all tally arithmetic goes through the encryption.Service
// abstraction.
package survey

import (
	"fmt"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/vocdoni/confidential-survey/encryption"
	"github.com/vocdoni/confidential-survey/storage"
	"github.com/vocdoni/confidential-survey/types"
	"go.vocdoni.io/dvote/log"
)

// WithdrawalBuffer is the window before the deadline during which withdrawal
// is no longer allowed. A withdrawal at exactly deadline-WithdrawalBuffer
// still succeeds.
const WithdrawalBuffer = time.Hour

// Config carries everything the engine needs. Admin, Metadata and Deadline
// are only used when creating a new survey; Load ignores them.
type Config struct {
	Admin      common.Address
	Metadata   types.SurveyMetadata
	Deadline   time.Time
	Now        func() time.Time
	Storage    *storage.Storage
	Encryption encryption.Service
}

// Engine is the survey state machine. All mutating operations are serialized
// by an internal mutex, so each one is applied to completion or fails with no
// partial effect before the next is considered.
type Engine struct {
	mu  sync.Mutex
	stg *storage.Storage
	enc encryption.Service
	now func() time.Time

	// deadlineClosed records that the current deadline passage has already
	// been written to the event log. Extending the deadline rearms it.
	deadlineClosed bool

	subLock     sync.RWMutex
	subscribers map[int]chan *types.Event
	nextSubID   int
}

func newEngine(cfg Config) (*Engine, error) {
	if cfg.Storage == nil {
		return nil, fmt.Errorf("missing storage")
	}
	if cfg.Encryption == nil {
		return nil, fmt.Errorf("missing encryption service")
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Engine{
		stg:         cfg.Storage,
		enc:         cfg.Encryption,
		now:         now,
		subscribers: make(map[int]chan *types.Event),
	}, nil
}

// New creates the survey and returns an engine bound to it. The option list
// and the admin identity are frozen from this point on. The admin is
// registered as an authorized viewer and can never be fully revoked. Tallies
// start as the zero ciphertext.
func New(cfg Config) (*Engine, error) {
	e, err := newEngine(cfg)
	if err != nil {
		return nil, err
	}
	if cfg.Admin == (common.Address{}) {
		return nil, fmt.Errorf("missing admin identity")
	}
	if len(cfg.Metadata.Options) < 1 {
		return nil, fmt.Errorf("survey needs at least one option")
	}
	if cfg.Deadline.IsZero() {
		return nil, fmt.Errorf("missing deadline")
	}
	if _, err := e.stg.Survey(); err == nil {
		return nil, fmt.Errorf("survey already exists")
	} else if err != storage.ErrNotFound {
		return nil, fmt.Errorf("check existing survey: %w", err)
	}

	sv := &types.Survey{
		Metadata:      cfg.Metadata,
		Admin:         cfg.Admin,
		IsActive:      true,
		Deadline:      cfg.Deadline,
		EncryptionKey: e.enc.PublicKey(),
	}
	tallies := make([]types.HexBytes, len(cfg.Metadata.Options))
	for i := range tallies {
		tallies[i] = e.enc.Zero()
	}
	entry := &types.ViewerEntry{IsAuthorized: true, Role: types.RoleAdmin}
	if err := e.stg.InitSurvey(sv, tallies, entry); err != nil {
		return nil, fmt.Errorf("initialize survey: %w", err)
	}

	log.Infow("survey created",
		"title", cfg.Metadata.Title,
		"options", len(cfg.Metadata.Options),
		"admin", cfg.Admin.Hex(),
		"deadline", cfg.Deadline,
	)
	e.emit(&types.Event{Name: types.EventSurveyActivated})
	return e, nil
}

// Load binds an engine to an already created survey. It fails if the storage
// holds no survey document, or with ErrEncryptionKeyMismatch if the encryption
// service does not hold the key the survey was created with.
func Load(cfg Config) (*Engine, error) {
	e, err := newEngine(cfg)
	if err != nil {
		return nil, err
	}
	sv, err := e.stg.Survey()
	if err != nil {
		return nil, fmt.Errorf("load survey: %w", err)
	}
	current := e.enc.PublicKey()
	if sv.EncryptionKey == nil || current == nil ||
		sv.EncryptionKey.X.Cmp(current.X) != 0 || sv.EncryptionKey.Y.Cmp(current.Y) != 0 {
		return nil, ErrEncryptionKeyMismatch
	}
	return e, nil
}

// survey reads the survey document.
func (e *Engine) survey() (*types.Survey, error) {
	sv, err := e.stg.Survey()
	if err != nil {
		return nil, fmt.Errorf("read survey: %w", err)
	}
	return sv, nil
}

// checkActive enforces the effective-active state: the explicit flag and the
// deadline clock are distinct conditions with distinct failures.
func (e *Engine) checkActive(sv *types.Survey) error {
	if !sv.IsActive {
		return ErrSurveyNotActive
	}
	if e.now().After(sv.Deadline) {
		return ErrSurveyExpired
	}
	return nil
}

func (e *Engine) requireAdmin(sv *types.Survey, caller common.Address) error {
	if caller != sv.Admin {
		return ErrNotAdmin
	}
	return nil
}

// grantToViewers issues decryption grants on c to the admin and every
// principal currently in the authorized set. Grants are idempotent at the
// encryption layer, so re-propagation is safe.
func (e *Engine) grantToViewers(sv *types.Survey, c types.HexBytes) error {
	if err := e.enc.GrantDecryption(c, sv.Admin); err != nil {
		return fmt.Errorf("grant to admin: %w", err)
	}
	viewers, err := e.stg.ViewerList()
	if err != nil {
		return fmt.Errorf("read viewer list: %w", err)
	}
	for _, viewer := range viewers {
		if err := e.enc.GrantDecryption(c, viewer); err != nil {
			return fmt.Errorf("grant to %s: %w", viewer.Hex(), err)
		}
	}
	return nil
}
