// Package handler は forecast フィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"forecast_backend/internal/api"
	"forecast_backend/internal/feature/forecast/domain"
	"forecast_backend/internal/feature/forecast/domain/entity"
	"forecast_backend/internal/feature/forecast/transport/http/dto"
	"forecast_backend/internal/feature/forecast/usecase"
)

// ForecastUsecase は予測ユースケースのインターフェースです。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type ForecastUsecase interface {
	Forecast(ctx context.Context, req usecase.ForecastRequest) (*entity.Report, error)
	History(ctx context.Context, pair string, limit int) ([]entity.Report, error)
	Pairs() []string
}

// ForecastHandler は予測APIのHTTPリクエストを処理します。
type ForecastHandler struct {
	uc ForecastUsecase
}

// NewForecastHandler は ForecastHandler を生成します。
func NewForecastHandler(uc ForecastUsecase) *ForecastHandler {
	return &ForecastHandler{uc: uc}
}

// ListPairs は予測可能なペアの一覧を返します。
//
// GET /v1/pairs
func (h *ForecastHandler) ListPairs(c *gin.Context) {
	c.JSON(http.StatusOK, dto.PairsResponse{Pairs: h.uc.Pairs()})
}

// GetForecast は指定ペアの予測レポートを返します。
//
// エンドポイント例:
// GET /v1/forecast?pair=EUR/USD&date=2025-03-06
func (h *ForecastHandler) GetForecast(c *gin.Context) {
	var q dto.ForecastQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid request: pair is required and date must be YYYY-MM-DD"})
		return
	}

	report, err := h.uc.Forecast(c.Request.Context(), usecase.ForecastRequest{Pair: q.Pair, AsOf: q.Date})
	if err != nil {
		status, msg := errorStatus(err)
		slog.Warn("forecast failed", "pair", q.Pair, "status", status, "error", err)
		c.JSON(status, api.ErrorResponse{Error: msg})
		return
	}

	c.JSON(http.StatusOK, dto.NewForecastResponse(*report))
}

// GetHistory は保存済みの予測レポートを新しい順に返します。
//
// GET /v1/forecast/history?pair=EUR/USD&limit=20
func (h *ForecastHandler) GetHistory(c *gin.Context) {
	var q dto.HistoryQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid request: limit must be a positive integer"})
		return
	}

	reports, err := h.uc.History(c.Request.Context(), q.Pair, q.Limit)
	if err != nil {
		status, msg := errorStatus(err)
		slog.Warn("forecast history failed", "pair", q.Pair, "status", status, "error", err)
		c.JSON(status, api.ErrorResponse{Error: msg})
		return
	}

	out := dto.HistoryResponse{Runs: make([]dto.ForecastResponse, 0, len(reports))}
	for _, r := range reports {
		out.Runs = append(out.Runs, dto.NewForecastResponse(r))
	}
	c.JSON(http.StatusOK, out)
}

// errorStatus はドメインエラーをHTTPステータスとクライアント向けメッセージに変換します。
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrUnknownPair):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, domain.ErrInsufficientHistory):
		return http.StatusUnprocessableEntity, err.Error()
	case errors.Is(err, domain.ErrDataUnavailable):
		// 上流のエラー内容は返さない
		return http.StatusBadGateway, domain.ErrDataUnavailable.Error()
	default:
		return http.StatusInternalServerError, "internal error"
	}
}
