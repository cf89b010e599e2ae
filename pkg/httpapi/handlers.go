// Package httpapi exposes the collector's fee estimates over HTTP.
package httpapi

import (
	"errors"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/bitcoinaugur/augurd/pkg/augur"
	"github.com/bitcoinaugur/augurd/pkg/collector"
)

const (
	maxTargetBlocks   = 1000.0
	maxHistoryAge     = 365 * 24 * time.Hour
	timestampLayoutMs = "2006-01-02T15:04:05.000Z"
)

// probabilityResponse is the wire shape for a single confidence level's
// fee rate.
type probabilityResponse struct {
	FeeRate float64 `json:"fee_rate"`
}

// blockTargetResponse is the wire shape for one block target's
// confidence -> fee rate table.
type blockTargetResponse struct {
	Probabilities map[string]probabilityResponse `json:"probabilities"`
}

// feeEstimateResponse is the top-level JSON body returned by /fees,
// /fees/target/:n, and /historical_fee.
type feeEstimateResponse struct {
	MempoolUpdateTime string                         `json:"mempool_update_time"`
	Estimates         map[string]blockTargetResponse `json:"estimates"`
}

func toResponse(estimate augur.FeeEstimate) feeEstimateResponse {
	estimates := make(map[string]blockTargetResponse, len(estimate.Estimates))
	for target, blockTarget := range estimate.Estimates {
		probabilities := make(map[string]probabilityResponse, len(blockTarget.Probabilities))
		for confidence, rate := range blockTarget.Probabilities {
			key := strconv.FormatFloat(confidence, 'f', 2, 64)
			value, _ := strconv.ParseFloat(strconv.FormatFloat(rate, 'f', 4, 64), 64)
			probabilities[key] = probabilityResponse{FeeRate: value}
		}
		estimates[strconv.Itoa(int(target))] = blockTargetResponse{Probabilities: probabilities}
	}

	return feeEstimateResponse{
		MempoolUpdateTime: estimate.Timestamp.UTC().Format(timestampLayoutMs),
		Estimates:         estimates,
	}
}

// Server wires a *gin.Engine against a Collector.
type Server struct {
	collector *collector.Collector
	logger    *zap.Logger
	engine    *gin.Engine
}

// New builds a Server with routes registered but not yet listening.
func New(c *collector.Collector, logger *zap.Logger) *Server {
	router := gin.New()
	router.Use(gin.Recovery())

	s := &Server{collector: c, logger: logger, engine: router}
	router.GET("/fees", s.getFees)
	router.GET("/fees/target/:n", s.getFeesForTarget)
	router.GET("/historical_fee", s.getHistoricalFee)
	router.GET("/health", s.getHealth)
	return s
}

// Handler returns the underlying http.Handler for use with an
// http.Server or httptest.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) getFees(c *gin.Context) {
	estimate, ok := s.collector.Latest()
	if !ok {
		c.String(http.StatusServiceUnavailable, "no fee estimates available yet")
		return
	}
	c.JSON(http.StatusOK, toResponse(estimate))
}

func (s *Server) getFeesForTarget(c *gin.Context) {
	n, err := strconv.ParseFloat(c.Param("n"), 64)
	if err != nil || n <= 0 || n > maxTargetBlocks || math.IsNaN(n) || math.IsInf(n, 0) {
		c.String(http.StatusBadRequest, "invalid or missing number of blocks")
		return
	}

	estimate, err := s.collector.EstimateForTarget(n)
	if err != nil {
		if errors.Is(err, augur.ErrInvalidParameter) {
			c.String(http.StatusBadRequest, "invalid number of blocks")
			return
		}
		s.logger.Warn("failed to compute fee estimate for target", zap.Float64("target", n), zap.Error(err))
		c.String(http.StatusServiceUnavailable, "no fee estimates available yet")
		return
	}
	c.JSON(http.StatusOK, toResponse(estimate))
}

func (s *Server) getHistoricalFee(c *gin.Context) {
	raw := c.Query("timestamp")
	seconds, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		c.String(http.StatusBadRequest, "invalid or missing timestamp")
		return
	}

	at := time.Unix(seconds, 0).UTC()
	now := time.Now().UTC()
	if at.After(now) || at.Before(now.Add(-maxHistoryAge)) {
		c.String(http.StatusBadRequest, "timestamp is in the future or more than 365 days old")
		return
	}

	estimate, err := s.collector.EstimateAt(at)
	if err != nil {
		s.logger.Warn("failed to compute historical fee estimate", zap.Time("at", at), zap.Error(err))
		c.String(http.StatusInternalServerError, "failed to calculate fee estimates")
		return
	}
	if len(estimate.Estimates) == 0 {
		c.String(http.StatusNotFound, "no data in the requested window")
		return
	}
	c.JSON(http.StatusOK, toResponse(estimate))
}

func (s *Server) getHealth(c *gin.Context) {
	c.String(http.StatusOK, "OK")
}
