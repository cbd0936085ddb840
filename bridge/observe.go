package bridge

import (
	"go.uber.org/zap"

	"github.com/wippyai/draco-go/resource"
)

// handleLog records handle lifecycle changes at debug level.
type handleLog struct{}

func (*handleLog) OnResourceEvent(e resource.Event) {
	Logger().Debug("bridge: handle "+e.Type.String(),
		zap.Uint32("handle", uint32(e.Handle)),
		zap.Stringer("type", e.TypeID))
}
