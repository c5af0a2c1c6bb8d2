package cli

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/rackscape/pkg/observability"
)

// logHooks reports library events through a logger. Per-device events are
// debug level; stage completions are info or error.
type logHooks struct {
	logger *log.Logger
}

func registerHooks(l *log.Logger) {
	h := logHooks{logger: l}
	observability.SetPipelineHooks(h)
	observability.SetLayoutHooks(h)
	observability.SetCacheHooks(h)
	observability.SetHTTPHooks(h)
}

func (h logHooks) OnLoadStart(_ context.Context, manifest string) {
	h.logger.Debug("loading assets", "manifest", manifest)
}

func (h logHooks) OnLoadComplete(_ context.Context, manifest string, assets int, d time.Duration, err error) {
	if err != nil {
		h.logger.Error("asset load failed", "manifest", manifest, "err", err)
		return
	}
	h.logger.Debug("loaded assets", "manifest", manifest, "assets", assets, "duration", d)
}

func (h logHooks) OnLayoutStart(_ context.Context, profile string, cabinets int) {
	h.logger.Debug("laying out", "profile", profile, "cabinets", cabinets)
}

func (h logHooks) OnLayoutComplete(_ context.Context, profile string, nodes int, d time.Duration, err error) {
	if err != nil {
		h.logger.Error("layout failed", "profile", profile, "err", err)
		return
	}
	h.logger.Debug("layout complete", "profile", profile, "nodes", nodes, "duration", d)
}

func (h logHooks) OnRenderStart(_ context.Context, formats []string) {
	h.logger.Debug("rendering", "formats", formats)
}

func (h logHooks) OnRenderComplete(_ context.Context, formats []string, d time.Duration, err error) {
	if err != nil {
		h.logger.Error("render failed", "formats", formats, "err", err)
		return
	}
	h.logger.Debug("render complete", "formats", formats, "duration", d)
}

func (h logHooks) OnTextureMissing(_ context.Context, key string) {
	h.logger.Debug("no texture pair, using plain faces", "size", key)
}

func (h logHooks) OnDeviceSkipped(_ context.Context, index, rackPosition int) {
	h.logger.Debug("device skipped", "index", index, "u", rackPosition)
}

func (h logHooks) OnCabinetAssembled(_ context.Context, placed, skipped int) {
	h.logger.Debug("cabinet assembled", "placed", placed, "skipped", skipped)
}

func (h logHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h logHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h logHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h logHooks) OnRequest(_ context.Context, method, path string) {
	h.logger.Debug("request", "method", method, "path", path)
}

func (h logHooks) OnResponse(_ context.Context, method, path string, status int, d time.Duration) {
	h.logger.Info("response", "method", method, "path", path, "status", status, "duration", d)
}
