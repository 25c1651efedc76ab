package deepgram

import (
	"go.opentelemetry.io/contrib/bridges/otelslog"
)

const scopeName = "github.com/yaseralie/OEE-VTuber-n8n-Node-RED/core/speechtotext/deepgram"

var logger = otelslog.NewLogger(scopeName)
