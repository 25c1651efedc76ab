package transport

import (
	"go.opentelemetry.io/contrib/bridges/otelslog"
)

const scopeName = "github.com/yaseralie/OEE-VTuber-n8n-Node-RED/core/transport"

var logger = otelslog.NewLogger(scopeName)
