package ratelimiter

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiterInterface は、API呼び出しなどの操作の頻度を制限するインターフェースです。
type RateLimiterInterface interface {
	Wait(ctx context.Context) error
}

// RateLimiter は連続する呼び出しの間に最小間隔を強制します。
// 1つのインスタンスを全ワーカーで共有することで、上流APIのグローバルなレート制限を守ります。
type RateLimiter struct {
	spacing time.Duration
	limiter *rate.Limiter
}

// NewRateLimiter は最小間隔 spacing の新しいRateLimiterを生成します。
// spacing が0以下の場合は制限なしになります。
func NewRateLimiter(spacing time.Duration) *RateLimiter {
	limit := rate.Inf
	if spacing > 0 {
		limit = rate.Every(spacing)
	}
	return &RateLimiter{
		spacing: spacing,
		limiter: rate.NewLimiter(limit, 1),
	}
}

// Spacing は設定された最小間隔を返します。
func (rl *RateLimiter) Spacing() time.Duration {
	return rl.spacing
}

// Wait は前回の呼び出しから最小間隔が経過するまで呼び出し元をブロックします。
// ctx がキャンセルされた場合は待機を中断してエラーを返します。
func (rl *RateLimiter) Wait(ctx context.Context) error {
	start := time.Now()
	if err := rl.limiter.Wait(ctx); err != nil {
		return err
	}
	if waited := time.Since(start); waited > time.Millisecond {
		slog.Debug("[RATE LIMIT] throttled", "waited", waited)
	}
	return nil
}
