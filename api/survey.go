package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/vocdoni/confidential-survey/storage"
)

// surveyInfo returns the survey document
// GET /survey
func (a *API) surveyInfo(w http.ResponseWriter, r *http.Request) {
	sv, err := a.engine.Survey()
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			ErrResourceNotFound.With("no survey created").Write(w)
			return
		}
		ErrGenericInternalServerError.WithErr(err).Write(w)
		return
	}
	httpWriteJSON(w, sv)
}

// surveyStats returns the survey statistics
// GET /survey/stats
func (a *API) surveyStats(w http.ResponseWriter, r *http.Request) {
	stats, err := a.engine.SurveyStats()
	if err != nil {
		errorFromEngine(err).Write(w)
		return
	}
	httpWriteJSON(w, stats)
}

// surveyResults returns the encrypted result summary
// GET /survey/results
func (a *API) surveyResults(w http.ResponseWriter, r *http.Request) {
	summary, err := a.engine.ResultSummary()
	if err != nil {
		errorFromEngine(err).Write(w)
		return
	}
	httpWriteJSON(w, summary)
}

// topOptions returns up to ?count non-empty option indices, in storage order
// GET /survey/results/top?count=N
func (a *API) topOptions(w http.ResponseWriter, r *http.Request) {
	count, err := strconv.Atoi(r.URL.Query().Get("count"))
	if err != nil {
		ErrMalformedParam.With("count must be an integer").Write(w)
		return
	}
	indices, err := a.engine.TopOptions(count)
	if err != nil {
		errorFromEngine(err).Write(w)
		return
	}
	httpWriteJSON(w, &TopOptionsResponse{Indices: indices})
}

// optionLabel returns one option label
// GET /survey/options/{optionIndex}
func (a *API) optionLabel(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, OptionURLParam))
	if err != nil {
		ErrMalformedParam.With("option index must be an integer").Write(w)
		return
	}
	label, err := a.engine.OptionLabel(index)
	if err != nil {
		errorFromEngine(err).Write(w)
		return
	}
	httpWriteJSON(w, &OptionResponse{Index: index, Label: label})
}

// allTallies returns the full ordered sequence of encrypted tallies
// GET /survey/tallies
func (a *API) allTallies(w http.ResponseWriter, r *http.Request) {
	tallies, err := a.engine.AllEncryptedTallies()
	if err != nil {
		errorFromEngine(err).Write(w)
		return
	}
	httpWriteJSON(w, &TalliesResponse{Tallies: tallies})
}

// tally returns one encrypted tally
// GET /survey/tallies/{optionIndex}
func (a *API) tally(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, OptionURLParam))
	if err != nil {
		ErrMalformedParam.With("option index must be an integer").Write(w)
		return
	}
	tally, err := a.engine.EncryptedTally(index)
	if err != nil {
		errorFromEngine(err).Write(w)
		return
	}
	httpWriteJSON(w, &TallyResponse{Index: index, Tally: tally})
}

// participant returns a participant's response status and current votes
// GET /participants/{address}
func (a *API) participant(w http.ResponseWriter, r *http.Request) {
	addr, ok := addressParam(chi.URLParam(r, AddressURLParam))
	if !ok {
		ErrMalformedParam.With("invalid address").Write(w)
		return
	}
	responded, err := a.engine.HasResponded(addr)
	if err != nil {
		errorFromEngine(err).Write(w)
		return
	}
	votes, err := a.engine.UserVotes(addr)
	if err != nil {
		errorFromEngine(err).Write(w)
		return
	}
	httpWriteJSON(w, &ParticipantResponse{Address: addr, HasResponded: responded, Votes: votes})
}

// events returns the persisted event log
// GET /events?fromSeq=N&max=M
func (a *API) events(w http.ResponseWriter, r *http.Request) {
	fromSeq := uint64(0)
	if v := r.URL.Query().Get("fromSeq"); v != "" {
		parsed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			ErrMalformedParam.With("fromSeq must be a non-negative integer").Write(w)
			return
		}
		fromSeq = parsed
	}
	max := 0
	if v := r.URL.Query().Get("max"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			ErrMalformedParam.With("max must be an integer").Write(w)
			return
		}
		max = parsed
	}
	events, err := a.engine.Events(fromSeq, max)
	if err != nil {
		errorFromEngine(err).Write(w)
		return
	}
	httpWriteJSON(w, &EventsResponse{Events: events})
}
