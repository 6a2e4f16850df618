package storage

import (
	"errors"

	"github.com/ethereum/go-ethereum/common"
	"github.com/vocdoni/confidential-survey/types"
	"go.vocdoni.io/dvote/db"
	"go.vocdoni.io/dvote/db/prefixeddb"
)

// viewerListKey is the singleton key of the ordered authorized-viewer list.
var viewerListKey = []byte("viewers")

// Viewer retrieves the registry entry of a principal. Like response records,
// entries exist implicitly: an unknown principal yields the zero entry.
func (s *Storage) Viewer(addr common.Address) (*types.ViewerEntry, error) {
	entry := &types.ViewerEntry{}
	err := s.getArtifact(viewerPrefix, addr.Bytes(), entry)
	if err == ErrNotFound {
		return &types.ViewerEntry{}, nil
	}
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// SetViewer stores the registry entry of a principal.
func (s *Storage) SetViewer(addr common.Address, entry *types.ViewerEntry) error {
	return s.setArtifact(viewerPrefix, addr.Bytes(), entry)
}

// DeleteViewer removes the registry entry of a principal.
func (s *Storage) DeleteViewer(addr common.Address) error {
	err := s.deleteArtifact(viewerPrefix, addr.Bytes())
	if err == ErrNotFound {
		return nil
	}
	return err
}

// ViewerList returns the ordered list of authorized viewers. The order is the
// authorization order, except that removals swap the last element into the
// freed slot.
func (s *Storage) ViewerList() ([]common.Address, error) {
	var list []common.Address
	err := s.getArtifact(viewerListPrefix, viewerListKey, &list)
	if err == ErrNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return list, nil
}

// SetViewerList stores the ordered list of authorized viewers.
func (s *Storage) SetViewerList(list []common.Address) error {
	return s.setArtifact(viewerListPrefix, viewerListKey, list)
}

// ApplyViewerChange commits a viewer entry together with the authorized-viewer
// list in a single write transaction, so a registry mutation is all-or-nothing
// across both artifacts. A nil entry deletes the principal's entry.
func (s *Storage) ApplyViewerChange(addr common.Address, entry *types.ViewerEntry, list []common.Address) error {
	s.globalLock.Lock()
	defer s.globalLock.Unlock()

	wTx := s.db.WriteTx()
	vTx := prefixeddb.NewPrefixedWriteTx(wTx, viewerPrefix)
	if entry == nil {
		if err := vTx.Delete(addr.Bytes()); err != nil && !errors.Is(err, db.ErrKeyNotFound) {
			wTx.Discard()
			return err
		}
	} else {
		entryData, err := encodeArtifact(entry)
		if err != nil {
			wTx.Discard()
			return err
		}
		if err := vTx.Set(addr.Bytes(), entryData); err != nil {
			wTx.Discard()
			return err
		}
	}
	listData, err := encodeArtifact(list)
	if err != nil {
		wTx.Discard()
		return err
	}
	lTx := prefixeddb.NewPrefixedWriteTx(wTx, viewerListPrefix)
	if err := lTx.Set(viewerListKey, listData); err != nil {
		wTx.Discard()
		return err
	}
	return wTx.Commit()
}
