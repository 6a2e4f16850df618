package storage

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/vocdoni/confidential-survey/types"
	"go.vocdoni.io/dvote/db/prefixeddb"
)

// surveyKey is the singleton key of the survey document.
var surveyKey = []byte("survey")

// Survey retrieves the survey document. It returns ErrNotFound if no survey
// has been created yet.
func (s *Storage) Survey() (*types.Survey, error) {
	survey := &types.Survey{}
	if err := s.getArtifact(surveyPrefix, surveyKey, survey); err != nil {
		return nil, err
	}
	return survey, nil
}

// SetSurvey stores the survey document.
func (s *Storage) SetSurvey(survey *types.Survey) error {
	if survey == nil {
		return fmt.Errorf("nil survey")
	}
	return s.setArtifact(surveyPrefix, surveyKey, survey)
}

// InitSurvey stores the survey document, the initial tallies, the admin viewer
// entry and the one-element viewer list in a single write transaction, so
// survey creation is all-or-nothing across artifact kinds.
func (s *Storage) InitSurvey(survey *types.Survey, tallies []types.HexBytes, adminEntry *types.ViewerEntry) error {
	if survey == nil {
		return fmt.Errorf("nil survey")
	}
	s.globalLock.Lock()
	defer s.globalLock.Unlock()

	wTx := s.db.WriteTx()
	surveyData, err := encodeArtifact(survey)
	if err != nil {
		wTx.Discard()
		return err
	}
	if err := prefixeddb.NewPrefixedWriteTx(wTx, surveyPrefix).Set(surveyKey, surveyData); err != nil {
		wTx.Discard()
		return err
	}
	tTx := prefixeddb.NewPrefixedWriteTx(wTx, tallyPrefix)
	for i, tally := range tallies {
		if err := tTx.Set(tallyKey(i), tally); err != nil {
			wTx.Discard()
			return err
		}
	}
	entryData, err := encodeArtifact(adminEntry)
	if err != nil {
		wTx.Discard()
		return err
	}
	if err := prefixeddb.NewPrefixedWriteTx(wTx, viewerPrefix).Set(survey.Admin.Bytes(), entryData); err != nil {
		wTx.Discard()
		return err
	}
	listData, err := encodeArtifact([]common.Address{survey.Admin})
	if err != nil {
		wTx.Discard()
		return err
	}
	if err := prefixeddb.NewPrefixedWriteTx(wTx, viewerListPrefix).Set(viewerListKey, listData); err != nil {
		wTx.Discard()
		return err
	}
	return wTx.Commit()
}
