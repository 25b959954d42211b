// Package nodes maps node types onto their handlers.
package nodes

import (
	"github.com/Tsinling0525/flowrun/model"
	"github.com/Tsinling0525/flowrun/nodes/array"
	"github.com/Tsinling0525/flowrun/nodes/echo"
	httpnode "github.com/Tsinling0525/flowrun/nodes/http"
	"github.com/Tsinling0525/flowrun/nodes/input"
	"github.com/Tsinling0525/flowrun/nodes/logic"
	"github.com/Tsinling0525/flowrun/nodes/loop"
	"github.com/Tsinling0525/flowrun/nodes/mapper"
	"github.com/Tsinling0525/flowrun/nodes/scraper"
	"github.com/Tsinling0525/flowrun/nodes/server"
	"github.com/Tsinling0525/flowrun/nodes/terminal"
	"github.com/Tsinling0525/flowrun/nodes/variable"
	"github.com/Tsinling0525/flowrun/plugin"
)

// New returns a fresh handler for t. Unrecognized types get a handler that
// marks the node skipped.
func New(t model.NodeType) plugin.NodeHandler {
	switch t {
	case model.TypeInput:
		return &input.Input{}
	case model.TypeCondition:
		return &logic.Condition{}
	case model.TypeAssert:
		return &logic.Assert{}
	case model.TypeLoop:
		return &loop.Loop{}
	case model.TypeCapture:
		return &variable.Capture{}
	case model.TypeCounter:
		return &variable.Counter{}
	case model.TypeHTTPRequest:
		return &httpnode.Request{}
	case model.TypeMapper:
		return &mapper.Mapper{}
	case model.TypeScraper:
		return &scraper.Scraper{}
	case model.TypeFilter:
		return &array.Filter{}
	case model.TypeArrayMap:
		return &array.Map{}
	case model.TypeServerTrigger:
		return &server.Trigger{}
	case model.TypeServerResponse:
		return &server.Response{}
	case model.TypeDebug:
		return &echo.Debug{}
	case model.TypeStart, model.TypeOutput, model.TypeComment, model.TypeGroup, model.TypeDisplay,
		model.TypeTabulize, model.TypeValueSelector, model.TypeCarousel, model.TypeResponse:
		return &echo.Echo{}
	case model.TypeCaseSuccess:
		return &terminal.Success{}
	case model.TypeCaseFail:
		return &terminal.Fail{}
	default:
		return &terminal.Unknown{}
	}
}
