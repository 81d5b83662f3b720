// Copyright (c) the luagent authors. All rights reserved.

package agent

import (
	"context"
	"log/slog"
	"time"
)

// LoggingMiddleware returns a [ChatMiddleware] that logs chat requests using
// slog.
func LoggingMiddleware(logger *slog.Logger) ChatMiddleware {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next ChatHandler) ChatHandler {
		return func(ctx context.Context, req *ChatRequest) (*ChatResponse, error) {
			start := time.Now()
			logger.InfoContext(ctx, "chat request started",
				"model", req.Model,
				"message_count", len(req.Messages),
				"tool_count", len(req.Tools),
				"stream", req.Stream,
			)

			resp, err := next(ctx, req)

			duration := time.Since(start)
			if err != nil {
				logger.ErrorContext(ctx, "chat request failed",
					"duration", duration,
					"error", err,
				)
				return nil, err
			}

			logger.InfoContext(ctx, "chat request completed",
				"duration", duration,
				"finish_reason", resp.FinishReason,
				"input_tokens", resp.Usage.InputTokens,
				"output_tokens", resp.Usage.OutputTokens,
			)
			return resp, nil
		}
	}
}
