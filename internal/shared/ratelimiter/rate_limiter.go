// Package ratelimiter は外部API呼び出しの頻度を制限します。
package ratelimiter

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/time/rate"
)

// Limiter は、API呼び出しなどの操作の頻度を制限するインターフェースです。
type Limiter interface {
	Wait(ctx context.Context) error
}

// RateLimiter は golang.org/x/time/rate のトークンバケットで呼び出し頻度を制限します。
// 複数のゴルーチンから同時に使用できます。
type RateLimiter struct {
	name    string
	limiter *rate.Limiter
}

var _ Limiter = (*RateLimiter)(nil)

// NewRateLimiter は interval あたり limit 回までの呼び出しを許可する RateLimiter を生成します。
// limit が 0 以下の場合は制限しません。
func NewRateLimiter(name string, limit int, interval time.Duration) *RateLimiter {
	if limit <= 0 || interval <= 0 {
		return &RateLimiter{name: name, limiter: rate.NewLimiter(rate.Inf, 0)}
	}
	every := interval / time.Duration(limit)
	// バースト: 1〜5
	burst := limit / 10
	if burst < 1 {
		burst = 1
	}
	if burst > 5 {
		burst = 5
	}
	return &RateLimiter{name: name, limiter: rate.NewLimiter(rate.Every(every), burst)}
}

// Wait はトークンが得られるまで待機します。ctx がキャンセルされた場合はエラーを返します。
func (rl *RateLimiter) Wait(ctx context.Context) error {
	r := rl.limiter.Reserve()
	if !r.OK() {
		return rl.limiter.Wait(ctx)
	}
	delay := r.Delay()
	if delay == 0 {
		return nil
	}

	slog.Info("rate limit reached, waiting", "limiter", rl.name, "delay", delay)
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		r.Cancel()
		return ctx.Err()
	}
}

// Allow は今すぐ呼び出せるかどうかを返します。
func (rl *RateLimiter) Allow() bool {
	return rl.limiter.Allow()
}
