// Package pkg provides the core libraries for Pinroute single-layer routing.
//
// # Overview
//
// Pinroute connects the nets of a board design with Manhattan traces on a
// single routing layer. The pkg directory is organized into four main areas:
//
//  1. [board] - Input model (catalog, design, geometry, validation)
//  2. [route] - The routing engine (grid, search, allocation, orchestration)
//  3. [render] - Output generation (board plots, net diagrams, conversion)
//  4. [pipeline] - Orchestration (load → route → render) used by CLI and API
//
// # Architecture
//
// The typical data flow through Pinroute:
//
//	design.json + catalog.json
//	         ↓
//	    [board] package (parse + validate)
//	         ↓
//	    [route] package (grid build, net ordering, path search, rip-up)
//	         ↓
//	    [render] package (board SVG, net DOT diagrams)
//	         ↓
//	    SVG/PDF/PNG/DOT/JSON output
//
// # Quick Start
//
// Route a design and plot the result:
//
//	import (
//	    "context"
//	    "github.com/matzehuels/pinroute/pkg/board"
//	    "github.com/matzehuels/pinroute/pkg/render/boardsvg"
//	    "github.com/matzehuels/pinroute/pkg/route"
//	)
//
//	design, _ := board.ReadDesignFile("board.json")
//	catalog, _ := board.ReadCatalogFile("catalog.json")
//
//	router, _ := route.New(design, catalog, route.DefaultConfig())
//	result, _ := router.Route(context.Background())
//
//	svg := boardsvg.Render(design, catalog, result)
//
// # Main Packages
//
// [board] - The input model: component catalog with pins and allocatable
// pin groups, placed instances with rotation, the board outline, and the
// net list. Validation lives here so the router can assume clean input.
//
// [route] - The routing engine. An occupancy grid discretizes the board,
// A* search finds Manhattan paths (obstacle-avoiding or minimum-crossing),
// multi-pin nets are decomposed into two-point tasks, group references are
// allocated to concrete pins at routing time, and the orchestrator retries
// net orderings with rip-up and reroute until every net connects or the
// search budget is exhausted.
//
// [render] - Board plots as SVG via [render/boardsvg], net connectivity
// diagrams via Graphviz in [render/netgraph], and SVG-to-PDF/PNG
// conversion at the [render] top level.
//
// [pipeline] - The complete load → route → render pipeline shared by the
// CLI and the HTTP API, with content-addressed caching of routing results
// and rendered artifacts.
//
// [cache] - Cache backends (file, Redis, null) and the key scheme for
// routing results and artifacts.
//
// [store] - Run history persistence (in-memory and MongoDB) behind the
// HTTP API.
//
// [api] - The HTTP surface: POST a design, fetch stored runs, re-render
// board plots.
//
// [errors] - Structured error codes shared across packages.
//
// [observability] - Hook interfaces for tracking router and pipeline
// progress without coupling the engine to any telemetry system.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...          # All tests
//	go test ./pkg/route/...    # Specific package
//
// [board]: https://pkg.go.dev/github.com/matzehuels/pinroute/pkg/board
// [route]: https://pkg.go.dev/github.com/matzehuels/pinroute/pkg/route
// [render]: https://pkg.go.dev/github.com/matzehuels/pinroute/pkg/render
// [render/boardsvg]: https://pkg.go.dev/github.com/matzehuels/pinroute/pkg/render/boardsvg
// [render/netgraph]: https://pkg.go.dev/github.com/matzehuels/pinroute/pkg/render/netgraph
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/pinroute/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/pinroute/pkg/cache
// [store]: https://pkg.go.dev/github.com/matzehuels/pinroute/pkg/store
// [api]: https://pkg.go.dev/github.com/matzehuels/pinroute/pkg/api
// [errors]: https://pkg.go.dev/github.com/matzehuels/pinroute/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/pinroute/pkg/observability
package pkg
