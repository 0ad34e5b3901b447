package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"sort"
	"strings"
	"sync/atomic"

	"github.com/Karthikn9883/fpna-agent/internal/analysis"
	"github.com/Karthikn9883/fpna-agent/internal/core"
	"github.com/Karthikn9883/fpna-agent/internal/intent"
	applog "github.com/Karthikn9883/fpna-agent/internal/log"
)

// maxAskBody bounds the ask request body.
const maxAskBody = 1 << 20 // 1MB

type askRequest struct {
	Question string `json:"question"`
	Entity   string `json:"entity,omitempty"`
}

type askResponse struct {
	Answer    string             `json:"answer"`
	Chart     *analysis.Chart    `json:"chart,omitempty"`
	Operation analysis.Operation `json:"operation"`
}

type monthsResponse struct {
	Months []core.Month `json:"months"`
	Latest string       `json:"latest,omitempty"`
}

type cashPoint struct {
	Month   core.Month `json:"month"`
	CashUSD float64    `json:"cash_usd"`
}

type cashResponse struct {
	Data []cashPoint `json:"data"`
}

// handleAsk classifies a free-text question and answers it.
func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	logger := applog.FromContext(r.Context())

	var req askRequest
	body := http.MaxBytesReader(w, r.Body, maxAskBody)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	question := sanitizeInput(req.Question)
	if question == "" {
		writeError(w, http.StatusBadRequest, "question is required")
		return
	}
	entity := sanitizeInput(req.Entity)

	ds := s.datasets.Current()
	if ds == nil {
		writeError(w, http.StatusServiceUnavailable, "dataset not loaded")
		return
	}

	op := intent.Classify(question)
	res, err := s.answer(ds, op, question, entity)
	if err != nil {
		logger.Error().Err(err).Str("operation", string(op)).Msg("answer failed")
		writeError(w, http.StatusInternalServerError, "could not answer question")
		return
	}

	writeJSON(w, http.StatusOK, res)
}

// handleOperation answers a fixed operation; q carries optional time or
// category hints and entity narrows aggregation.
func (s *Server) handleOperation(op analysis.Operation) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := applog.FromContext(r.Context())

		question := sanitizeInput(r.URL.Query().Get("q"))
		entity := sanitizeInput(r.URL.Query().Get("entity"))

		ds := s.datasets.Current()
		if ds == nil {
			writeError(w, http.StatusServiceUnavailable, "dataset not loaded")
			return
		}

		res, err := s.answer(ds, op, question, entity)
		if err != nil {
			if errors.Is(err, analysis.ErrUnknownOperation) {
				writeError(w, http.StatusNotFound, "unknown operation")
				return
			}
			logger.Error().Err(err).Str("operation", string(op)).Msg("answer failed")
			writeError(w, http.StatusInternalServerError, "could not answer question")
			return
		}

		writeJSON(w, http.StatusOK, res)
	}
}

// answer runs one operation, with a fingerprint-keyed cache in front so a
// repeated question against unchanged data costs a map lookup.
func (s *Server) answer(ds *core.Dataset, op analysis.Operation, question, entity string) (askResponse, error) {
	key := strings.Join([]string{string(op), entity, question, ds.Fingerprint()}, "|")
	if cached, ok := s.answers.Get(key); ok {
		atomic.AddInt64(&s.app.cacheHits, 1)
		return cached, nil
	}
	atomic.AddInt64(&s.app.cacheMisses, 1)

	res, err := s.analysis.Answer(ds, op, question, entity)
	if err != nil {
		return askResponse{}, err
	}

	out := askResponse{Answer: res.Answer, Chart: res.Chart, Operation: op}
	s.answers.Set(key, out)
	atomic.AddInt64(&s.app.questionsAnswered, 1)
	return out, nil
}

// handleMonths lists the months the dataset covers.
func (s *Server) handleMonths(w http.ResponseWriter, r *http.Request) {
	ds := s.datasets.Current()
	if ds == nil {
		writeError(w, http.StatusServiceUnavailable, "dataset not loaded")
		return
	}

	res := monthsResponse{Months: ds.Months()}
	if res.Months == nil {
		res.Months = []core.Month{}
	}
	if latest, ok := ds.LatestMonth(); ok {
		res.Latest = latest.String()
	}
	writeJSON(w, http.StatusOK, res)
}

// handleCash returns the monthly cash series, summed across entities
// unless one is requested.
func (s *Server) handleCash(w http.ResponseWriter, r *http.Request) {
	entity := sanitizeInput(r.URL.Query().Get("entity"))

	ds := s.datasets.Current()
	if ds == nil {
		writeError(w, http.StatusServiceUnavailable, "dataset not loaded")
		return
	}

	byMonth := make(map[core.Month]float64)
	for _, row := range ds.Cash() {
		if entity != "" && !strings.EqualFold(row.Entity, entity) {
			continue
		}
		byMonth[row.Month] += row.AmountUSD
	}

	data := make([]cashPoint, 0, len(byMonth))
	for month, amount := range byMonth {
		data = append(data, cashPoint{Month: month, CashUSD: amount})
	}
	sort.Slice(data, func(i, j int) bool { return data[i].Month.Before(data[j].Month) })

	writeJSON(w, http.StatusOK, cashResponse{Data: data})
}
