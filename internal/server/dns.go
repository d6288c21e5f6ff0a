package server

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/miekg/dns"
	"github.com/xxxsen/common/logutil"
	"github.com/xxxsen/tldx/internal/hostname"
	"github.com/xxxsen/tldx/internal/metrics"
	"github.com/xxxsen/tldx/internal/suffix"
	"go.uber.org/zap"
)

func (s *Server) handleDNS(w dns.ResponseWriter, req *dns.Msg) {
	ctx := context.Background()
	defer func() {
		if r := recover(); r != nil {
			logutil.GetLogger(ctx).Error("panic recovered while handling dns request", zap.Any("panic", r))
		}
	}()

	resp := s.processRequest(ctx, req)
	resp.Id = req.Id
	resp.Compress = true
	if err := w.WriteMsg(resp); err != nil {
		logutil.GetLogger(ctx).Error("write response failed", zap.Error(err))
	}
}

func (s *Server) processRequest(ctx context.Context, req *dns.Msg) *dns.Msg {
	resp := new(dns.Msg)
	if req.Opcode != dns.OpcodeQuery || len(req.Question) == 0 {
		resp.SetRcode(req, dns.RcodeNotImplemented)
		return resp
	}
	question := req.Question[0]
	resp.SetReply(req)
	resp.Authoritative = true
	if question.Qclass != dns.ClassINET || (question.Qtype != dns.TypeTXT && question.Qtype != dns.TypeANY) {
		return resp
	}

	host := hostname.Normalize(question.Name)
	logger := logutil.GetLogger(ctx).With(zap.String("host", host))
	parts, err := s.opts.parser.Parse(host)
	if err != nil {
		metrics.ParseErrors.WithLabelValues(metrics.ErrorType(err), metrics.SourceDNS).Inc()
		logger.Debug("parse host failed", zap.Error(err))
		if errors.Is(err, suffix.ErrFormat) {
			resp.SetRcode(req, dns.RcodeFormatError)
		} else {
			resp.SetRcode(req, dns.RcodeServerFailure)
		}
		return resp
	}
	metrics.ParseTotal.WithLabelValues(parts.Rule.Type.String(), metrics.SourceDNS).Inc()
	logger.Debug("parse host succ", zap.String("tld", parts.TLD), zap.String("sld", parts.SLD))
	resp.Answer = append(resp.Answer, buildTXT(question.Name, s.opts.ttl, parts))
	return resp
}

func buildTXT(name string, ttl uint32, parts suffix.Parts) dns.RR {
	return &dns.TXT{
		Hdr: dns.RR_Header{
			Name:   dns.Fqdn(strings.ToLower(name)),
			Rrtype: dns.TypeTXT,
			Class:  dns.ClassINET,
			Ttl:    ttl,
		},
		Txt: []string{
			fmt.Sprintf("tld=%s", parts.TLD),
			fmt.Sprintf("sld=%s", parts.SLD),
			fmt.Sprintf("sub=%s", parts.Subdomain),
			fmt.Sprintf("rule=%s", parts.Rule.String()),
		},
	}
}
