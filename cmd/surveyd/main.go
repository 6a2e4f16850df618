package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/ethereum/go-ethereum/common"
	"github.com/vocdoni/confidential-survey/crypto/ecc/curves"
	"github.com/vocdoni/confidential-survey/encryption"
	"github.com/vocdoni/confidential-survey/service"
	"github.com/vocdoni/confidential-survey/storage"
	"github.com/vocdoni/confidential-survey/survey"
	"github.com/vocdoni/confidential-survey/types"
	"go.vocdoni.io/dvote/db"
	"go.vocdoni.io/dvote/db/metadb"
	"go.vocdoni.io/dvote/log"
)

func main() {
	host := flag.String("host", "0.0.0.0", "API host to bind")
	port := flag.Int("port", 8080, "API port")
	dataDir := flag.String("datadir", "./surveyd-data", "data directory")
	logLevel := flag.String("loglevel", "info", "log level (debug, info, warn, error)")
	curve := flag.String("curve", curves.CurveTypeBN254, "encryption curve type")
	admin := flag.String("admin", "", "survey admin address (required on first run)")
	title := flag.String("title", "", "survey title (required on first run)")
	description := flag.String("description", "", "survey description")
	options := flag.String("options", "", "comma-separated option labels (required on first run)")
	duration := flag.Duration("duration", 7*24*time.Hour, "survey duration until the deadline")
	monitorInterval := flag.Duration("monitor-interval", time.Minute, "deadline monitor interval")
	flag.Parse()

	log.Init(*logLevel, "stdout", nil)

	database, err := metadb.New(db.TypePebble, *dataDir)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	stg := storage.New(database)
	defer stg.Close()

	enc, err := openEncryption(stg, *curve)
	if err != nil {
		log.Fatal(err)
	}

	cfg := survey.Config{
		Storage:    stg,
		Encryption: enc,
	}
	engine, err := survey.Load(cfg)
	if errors.Is(err, survey.ErrEncryptionKeyMismatch) {
		log.Fatalf("stored survey was created with a different encryption key: %v", err)
	}
	if err != nil {
		// No survey yet, create one from the flags.
		if *admin == "" || *title == "" || *options == "" {
			log.Fatalf("no existing survey found; -admin, -title and -options are required to create one")
		}
		if !common.IsHexAddress(*admin) {
			log.Fatalf("invalid admin address: %s", *admin)
		}
		cfg.Admin = common.HexToAddress(*admin)
		cfg.Metadata = types.SurveyMetadata{
			Title:       *title,
			Description: *description,
			Options:     strings.Split(*options, ","),
		}
		cfg.Deadline = time.Now().Add(*duration)
		engine, err = survey.New(cfg)
		if err != nil {
			log.Fatalf("failed to create survey: %v", err)
		}
	} else {
		log.Infow("existing survey loaded", "datadir", *dataDir)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	apiService := service.NewAPI(engine, *host, *port)
	if err := apiService.Start(ctx); err != nil {
		log.Fatalf("failed to start API service: %v", err)
	}
	defer apiService.Stop()

	monitor := service.NewDeadlineMonitor(engine, *monitorInterval)
	if err := monitor.Start(ctx); err != nil {
		log.Fatalf("failed to start deadline monitor: %v", err)
	}
	defer monitor.Stop()

	log.Infow("surveyd running", "host", *host, "port", *port)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	log.Info("shutting down")
}

// openEncryption rebuilds the encryption service from the persisted key
// material, or generates and stores a fresh key pair on the first run. The
// grant ledger is backed by the same storage, so the published public key,
// the decryption oracle and issued grants all survive restarts.
func openEncryption(stg *storage.Storage, curveType string) (*encryption.ElGamalService, error) {
	km, err := stg.KeyMaterial()
	switch {
	case err == nil:
		enc, err := encryption.NewElGamalServiceFromKey(km.Curve, km.PrivateKey.MathBigInt())
		if err != nil {
			return nil, err
		}
		if km.Curve != curveType {
			log.Warnw("ignoring -curve flag, key material pins the curve", "curve", km.Curve)
		}
		if err := enc.SetGrantStore(stg); err != nil {
			return nil, err
		}
		log.Infow("encryption key loaded", "curve", km.Curve)
		return enc, nil
	case errors.Is(err, storage.ErrNotFound):
		enc, err := encryption.NewElGamalService(curveType)
		if err != nil {
			return nil, err
		}
		km = &storage.KeyMaterial{
			Curve:      curveType,
			PrivateKey: (*types.BigInt)(enc.PrivateKey()),
		}
		if err := stg.SetKeyMaterial(km); err != nil {
			return nil, err
		}
		if err := enc.SetGrantStore(stg); err != nil {
			return nil, err
		}
		log.Infow("encryption key generated", "curve", curveType)
		return enc, nil
	default:
		return nil, err
	}
}
