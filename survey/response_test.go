package survey

import (
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	qt "github.com/frankban/quicktest"
	"github.com/vocdoni/confidential-survey/encryption"
	"github.com/vocdoni/confidential-survey/types"
	"github.com/vocdoni/confidential-survey/util"
)

func (f *fixture) encryptOne(t *testing.T) (types.HexBytes, types.HexBytes) {
	t.Helper()
	blob, proof, err := f.enc.EncryptValue(1)
	qt.Assert(t, err, qt.IsNil)
	return blob, proof
}

func TestNoDoubleVoting(t *testing.T) {
	c := qt.New(t)
	f := newFixture(t, []string{"A", "B"}, time.Hour)

	c.Assert(f.vote(t, testVoter, 0), qt.IsNil)
	c.Assert(f.vote(t, testVoter, 1), qt.Equals, ErrAlreadyResponded)

	blob, proof := f.encryptOne(t)
	err := f.engine.SubmitBatchResponse(testVoter, []int{1}, [][]byte{blob}, [][]byte{proof})
	c.Assert(err, qt.Equals, ErrAlreadyResponded)

	// The failed attempts left the tallies untouched.
	c.Assert(f.decryptTally(t, 0), qt.Equals, uint64(1))
	tally1, err := f.engine.EncryptedTally(1)
	c.Assert(err, qt.IsNil)
	c.Assert(f.enc.IsZero(tally1), qt.IsTrue)
}

func TestInvalidOptionBounds(t *testing.T) {
	c := qt.New(t)
	f := newFixture(t, []string{"A", "B"}, time.Hour)

	c.Assert(f.vote(t, testVoter, 2), qt.Equals, ErrInvalidOption)
	c.Assert(f.vote(t, testVoter, -1), qt.Equals, ErrInvalidOption)

	_, err := f.engine.EncryptedTally(2)
	c.Assert(err, qt.Equals, ErrInvalidOption)

	// The voter is still eligible after the failed attempts.
	c.Assert(f.vote(t, testVoter, 1), qt.IsNil)
}

func TestInvalidProofRejected(t *testing.T) {
	c := qt.New(t)
	f := newFixture(t, []string{"A", "B"}, time.Hour)

	blob, proof := f.encryptOne(t)
	bad := make([]byte, len(proof))
	copy(bad, proof)
	bad[0] ^= 0xff

	err := f.engine.SubmitResponse(testVoter, 0, blob, bad)
	c.Assert(err, qt.Equals, encryption.ErrProofInvalid)

	responded, err := f.engine.HasResponded(testVoter)
	c.Assert(err, qt.IsNil)
	c.Assert(responded, qt.IsFalse)
}

func TestBatchResponse(t *testing.T) {
	c := qt.New(t)
	f := newFixture(t, []string{"A", "B", "C"}, time.Hour)

	blob0, proof0 := f.encryptOne(t)
	blob2, proof2 := f.encryptOne(t)
	err := f.engine.SubmitBatchResponse(testVoter,
		[]int{0, 2}, [][]byte{blob0, blob2}, [][]byte{proof0, proof2})
	c.Assert(err, qt.IsNil)

	votes, err := f.engine.UserVotes(testVoter)
	c.Assert(err, qt.IsNil)
	c.Assert(votes, qt.DeepEquals, []int{0, 2})

	c.Assert(f.decryptTally(t, 0), qt.Equals, uint64(1))
	c.Assert(f.decryptTally(t, 2), qt.Equals, uint64(1))
	tally1, err := f.engine.EncryptedTally(1)
	c.Assert(err, qt.IsNil)
	c.Assert(f.enc.IsZero(tally1), qt.IsTrue)
}

func TestBatchRepeatedIndexAccumulates(t *testing.T) {
	c := qt.New(t)
	f := newFixture(t, []string{"A", "B"}, time.Hour)

	blobA, proofA := f.encryptOne(t)
	blobB, proofB := f.encryptOne(t)
	err := f.engine.SubmitBatchResponse(testVoter,
		[]int{1, 1}, [][]byte{blobA, blobB}, [][]byte{proofA, proofB})
	c.Assert(err, qt.IsNil)

	c.Assert(f.decryptTally(t, 1), qt.Equals, uint64(2))
}

func TestBatchAtomicity(t *testing.T) {
	c := qt.New(t)
	f := newFixture(t, []string{"A", "B", "C", "D", "E"}, time.Hour)

	indices := []int{0, 1, 2, 3, 7} // last one is out of range
	blobs := make([][]byte, len(indices))
	proofs := make([][]byte, len(indices))
	for i := range indices {
		blob, proof := f.encryptOne(t)
		blobs[i] = blob
		proofs[i] = proof
	}

	err := f.engine.SubmitBatchResponse(testVoter, indices, blobs, proofs)
	c.Assert(err, qt.Equals, ErrInvalidOption)

	responded, err := f.engine.HasResponded(testVoter)
	c.Assert(err, qt.IsNil)
	c.Assert(responded, qt.IsFalse)

	tallies, err := f.engine.AllEncryptedTallies()
	c.Assert(err, qt.IsNil)
	for _, tally := range tallies {
		c.Assert(f.enc.IsZero(tally), qt.IsTrue)
	}
}

func TestBatchArityAndEmpty(t *testing.T) {
	c := qt.New(t)
	f := newFixture(t, []string{"A", "B"}, time.Hour)

	blob, proof := f.encryptOne(t)
	err := f.engine.SubmitBatchResponse(testVoter, []int{0, 1}, [][]byte{blob}, [][]byte{proof})
	c.Assert(err, qt.Equals, ErrArityMismatch)

	err = f.engine.SubmitBatchResponse(testVoter, []int{}, [][]byte{}, [][]byte{})
	c.Assert(err, qt.Equals, ErrEmptyBatch)
}

func TestWithdrawalWindow(t *testing.T) {
	c := qt.New(t)
	f := newFixture(t, []string{"A", "B"}, 3*time.Hour)

	c.Assert(f.engine.WithdrawAndResubmit(testVoter), qt.Equals, ErrNoPriorResponse)
	c.Assert(f.vote(t, testVoter, 0), qt.IsNil)

	// Exactly at deadline-buffer a withdrawal still goes through.
	f.clock.Advance(2 * time.Hour)
	c.Assert(f.engine.WithdrawAndResubmit(testVoter), qt.IsNil)

	c.Assert(f.vote(t, testVoter, 1), qt.IsNil)

	// One second into the buffer it is refused.
	f.clock.Advance(time.Second)
	c.Assert(f.engine.WithdrawAndResubmit(testVoter), qt.Equals, ErrTooLateToWithdraw)
}

func TestWithdrawalDoesNotSubtract(t *testing.T) {
	c := qt.New(t)
	f := newFixture(t, []string{"A", "B"}, 3*time.Hour)

	c.Assert(f.vote(t, testVoter, 0), qt.IsNil)
	c.Assert(f.engine.WithdrawAndResubmit(testVoter), qt.IsNil)

	// The record reset, the tally did not.
	responded, err := f.engine.HasResponded(testVoter)
	c.Assert(err, qt.IsNil)
	c.Assert(responded, qt.IsFalse)
	votes, err := f.engine.UserVotes(testVoter)
	c.Assert(err, qt.IsNil)
	c.Assert(votes, qt.HasLen, 0)
	c.Assert(f.decryptTally(t, 0), qt.Equals, uint64(1))

	// A fresh vote accumulates on top of the withdrawn one.
	c.Assert(f.vote(t, testVoter, 0), qt.IsNil)
	c.Assert(f.decryptTally(t, 0), qt.Equals, uint64(2))

	votes, err = f.engine.UserVotes(testVoter)
	c.Assert(err, qt.IsNil)
	c.Assert(votes, qt.DeepEquals, []int{0})
}

func TestWithdrawalEmitsVoteUpdated(t *testing.T) {
	c := qt.New(t)
	f := newFixture(t, []string{"A", "B"}, 3*time.Hour)

	c.Assert(f.vote(t, testVoter, 1), qt.IsNil)
	c.Assert(f.engine.WithdrawAndResubmit(testVoter), qt.IsNil)

	events, err := f.engine.Events(0, 0)
	c.Assert(err, qt.IsNil)
	last := events[len(events)-1]
	c.Assert(last.Name, qt.Equals, types.EventVoteUpdated)
	c.Assert(last.Principal, qt.Equals, testVoter)
	c.Assert(last.OldOptions, qt.DeepEquals, []int{1})
	c.Assert(last.NewOptions, qt.HasLen, 0)
}

func TestTallyMonotonicity(t *testing.T) {
	c := qt.New(t)
	f := newFixture(t, []string{"A"}, 10*time.Hour)

	last := uint64(0)
	for i := 0; i < 4; i++ {
		voter := common.BytesToAddress(util.RandomBytes(20))
		c.Assert(f.vote(t, voter, 0), qt.IsNil)
		value := f.decryptTally(t, 0)
		c.Assert(value >= last, qt.IsTrue)
		last = value
		if i%2 == 0 {
			c.Assert(f.engine.WithdrawAndResubmit(voter), qt.IsNil)
			c.Assert(f.decryptTally(t, 0), qt.Equals, value)
		}
	}
	c.Assert(last, qt.Equals, uint64(4))
}
