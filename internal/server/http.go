package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/schema"
	"github.com/xxxsen/common/logutil"
	"github.com/xxxsen/tldx/internal/hostname"
	"github.com/xxxsen/tldx/internal/metrics"
	"github.com/xxxsen/tldx/internal/suffix"
	"go.uber.org/zap"
)

type parseRequest struct {
	Host     string `schema:"host"`
	StripWWW bool   `schema:"strip_www"`
}

type parseResponse struct {
	Host              string `json:"host"`
	TLD               string `json:"tld"`
	SLD               string `json:"sld"`
	Subdomain         string `json:"subdomain"`
	RegistrableDomain string `json:"registrable_domain"`
	Rule              string `json:"rule"`
	RuleType          string `json:"rule_type"`
}

type errorResponse struct {
	Error string `json:"error"`
}

var queryDecoder = newQueryDecoder()

func newQueryDecoder() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)
	return d
}

func (s *Server) httpHandler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/parse", s.handleParse)
	mux.Handle("/metrics", metrics.Handler())
	return mux
}

func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
		return
	}
	req := &parseRequest{}
	if err := queryDecoder.Decode(req, r.URL.Query()); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	host := hostname.Normalize(req.Host)
	if req.StripWWW {
		host = suffix.StripWWW(host)
	}
	parts, err := s.opts.parser.Parse(host)
	if err != nil {
		metrics.ParseErrors.WithLabelValues(metrics.ErrorType(err), metrics.SourceHTTP).Inc()
		status := http.StatusInternalServerError
		if errors.Is(err, suffix.ErrFormat) {
			status = http.StatusBadRequest
		} else {
			logutil.GetLogger(r.Context()).Error("parse host failed", zap.String("host", host), zap.Error(err))
		}
		writeJSON(w, status, errorResponse{Error: err.Error()})
		return
	}
	metrics.ParseTotal.WithLabelValues(parts.Rule.Type.String(), metrics.SourceHTTP).Inc()
	writeJSON(w, http.StatusOK, parseResponse{
		Host:              host,
		TLD:               parts.TLD,
		SLD:               parts.SLD,
		Subdomain:         parts.Subdomain,
		RegistrableDomain: parts.RegistrableDomain(),
		Rule:              parts.Rule.String(),
		RuleType:          parts.Rule.Type.String(),
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
