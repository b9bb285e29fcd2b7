package server

import (
	"context"
	"encoding/json"
	"fmt"
	"image"

	"github.com/ironsheep/sprocket-align/internal/blob"
	"github.com/ironsheep/sprocket-align/internal/geometry"
	"github.com/ironsheep/sprocket-align/internal/imaging"
	"github.com/ironsheep/sprocket-align/internal/ocr"
	"github.com/ironsheep/sprocket-align/internal/rows"
	"github.com/ironsheep/sprocket-align/internal/strip"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "strip_straighten", "image_crop").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
//
// Pipeline tools build a strip.Straightener from the default configuration
// with the call's overrides applied, load the scan from the cache and run
// as much of the pipeline as they report on.
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	if len(args) == 0 {
		args = json.RawMessage("{}")
	}

	switch name {
	// Strip Pipeline
	case "strip_load":
		return s.handleStripLoad(args)
	case "strip_detect_holes":
		return s.handleStripDetectHoles(args)
	case "strip_group_rows":
		return s.handleStripGroupRows(args)
	case "strip_fit_line":
		return s.handleStripFitLine(args)
	case "strip_estimate_angle":
		return s.handleStripEstimateAngle(args)
	case "strip_straighten":
		return s.handleStripStraighten(args)
	case "strip_overlay":
		return s.handleStripOverlay(args)
	case "strip_edge_print":
		return s.handleStripEdgePrint(args)
	case "strip_suggest_threshold":
		return s.handleStripSuggestThreshold(args)

	// Image Helpers
	case "image_info":
		return s.handleImageInfo(args)
	case "image_crop":
		return s.handleImageCrop(args)
	case "image_sample_color":
		return s.handleImageSampleColor(args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// === Result Shapes ===

type pointResult struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func toPoint(p geometry.Point) pointResult {
	return pointResult{X: p.X, Y: p.Y}
}

// rectResult is a pixel rectangle with an exclusive maximum, like image.Rectangle.
type rectResult struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

func toRect(r image.Rectangle) rectResult {
	return rectResult{X1: r.Min.X, Y1: r.Min.Y, X2: r.Max.X, Y2: r.Max.Y}
}

type holeResult struct {
	Index  int         `json:"index"`
	Center pointResult `json:"center"`
	Bounds rectResult  `json:"bounds"`
	Area   float64     `json:"area"`
}

func describeHoles(holes []blob.Blob) []holeResult {
	out := make([]holeResult, len(holes))
	for i, h := range holes {
		out[i] = holeResult{
			Index:  i,
			Center: toPoint(h.Center()),
			Bounds: toRect(h.Bounds().Rect()),
			Area:   h.Area(),
		}
	}
	return out
}

type lineResult struct {
	Kind         string   `json:"kind"`
	Equation     string   `json:"equation"`
	AngleDegrees float64  `json:"angle_degrees"`
	Gradient     *float64 `json:"gradient,omitempty"`
	Displacement *float64 `json:"displacement,omitempty"`
	X            *float64 `json:"x,omitempty"`
	Direction    string   `json:"direction,omitempty"`
}

func describeLine(l geometry.Line) lineResult {
	r := lineResult{
		Kind:         l.Kind().String(),
		Equation:     l.String(),
		AngleDegrees: geometry.Degrees(geometry.Angle(l)),
	}
	if l.IsVertical() {
		x := l.Displacement()
		r.X = &x
		r.Direction = l.Direction().String()
		return r
	}
	g, d := l.Gradient(), l.Displacement()
	r.Gradient = &g
	r.Displacement = &d
	return r
}

// === Pipeline Setup ===

type pipelineArgs struct {
	Path             string   `json:"path"`
	Grouper          string   `json:"grouper"`
	ToleranceDegrees *float64 `json:"tolerance_degrees"`
}

// pipeline returns a Straightener configured by args and the scan it names.
// Config fields are overridden by the arguments with the same JSON names.
func (s *Server) pipeline(args json.RawMessage) (*strip.Straightener, image.Image, error) {
	var a pipelineArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, nil, err
	}

	cfg := strip.DefaultConfig()
	if err := json.Unmarshal(args, &cfg); err != nil {
		return nil, nil, err
	}
	if a.ToleranceDegrees != nil {
		cfg.Tolerance = geometry.Radians(*a.ToleranceDegrees)
	}

	st, err := strip.New(cfg, s.debug)
	if err != nil {
		return nil, nil, err
	}
	switch a.Grouper {
	case "", "distance":
		st.Grouper = cfg.Grouper()
	case "kmeans":
		st.Grouper = rows.KMeansGrouper{Rows: 2}
	default:
		return nil, nil, fmt.Errorf("unknown grouper %q: want distance or kmeans", a.Grouper)
	}

	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, nil, err
	}
	return st, img, nil
}

// === Strip Pipeline Handlers ===

type stripLoadResult struct {
	*imaging.ImageInfo
	Holes          int         `json:"holes"`
	Rejected       int         `json:"rejected"`
	Strip          *rectResult `json:"strip,omitempty"`
	DetectionError string      `json:"detection_error,omitempty"`
}

func (s *Server) handleStripLoad(args json.RawMessage) (interface{}, error) {
	var a pipelineArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	st, img, err := s.pipeline(args)
	if err != nil {
		return nil, err
	}
	info, err := imaging.LoadImageInfo(s.cache, a.Path)
	if err != nil {
		return nil, err
	}

	res := &stripLoadResult{ImageInfo: info}
	m, err := st.DetectHoles(img)
	if err != nil {
		res.DetectionError = err.Error()
		return res, nil
	}
	film := toRect(m.Strip)
	res.Holes = len(m.Holes)
	res.Rejected = m.Rejected
	res.Strip = &film
	return res, nil
}

type holesResult struct {
	Count    int          `json:"count"`
	Rejected int          `json:"rejected"`
	Strip    rectResult   `json:"strip"`
	Holes    []holeResult `json:"holes"`
}

func (s *Server) handleStripDetectHoles(args json.RawMessage) (interface{}, error) {
	st, img, err := s.pipeline(args)
	if err != nil {
		return nil, err
	}
	m, err := st.DetectHoles(img)
	if err != nil {
		return nil, err
	}
	return &holesResult{
		Count:    len(m.Holes),
		Rejected: m.Rejected,
		Strip:    toRect(m.Strip),
		Holes:    describeHoles(m.Holes),
	}, nil
}

type groupResult struct {
	Index   int           `json:"index"`
	Count   int           `json:"count"`
	MeanY   float64       `json:"mean_y"`
	Centers []pointResult `json:"centers"`
}

type groupsResult struct {
	Holes  int           `json:"holes"`
	Count  int           `json:"count"`
	Groups []groupResult `json:"groups"`
}

func (s *Server) handleStripGroupRows(args json.RawMessage) (interface{}, error) {
	st, img, err := s.pipeline(args)
	if err != nil {
		return nil, err
	}
	m, err := st.DetectHoles(img)
	if err != nil {
		return nil, err
	}
	groups, err := st.Grouper.Group(m.Holes)
	if err != nil {
		return nil, err
	}

	res := &groupsResult{Holes: len(m.Holes), Count: len(groups)}
	for i, g := range groups {
		gr := groupResult{Index: i, Count: len(g), MeanY: blob.MeanY(g)}
		for _, c := range blob.Centers(g) {
			gr.Centers = append(gr.Centers, toPoint(c))
		}
		res.Groups = append(res.Groups, gr)
	}
	return res, nil
}

type stripFitLineArgs struct {
	Points []struct {
		X float64 `json:"x"`
		Y float64 `json:"y"`
	} `json:"points"`
	SortByX bool `json:"sort_by_x"`
}

func (s *Server) handleStripFitLine(args json.RawMessage) (interface{}, error) {
	var a stripFitLineArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	points := make([]geometry.Point, len(a.Points))
	for i, p := range a.Points {
		points[i] = geometry.Pt(p.X, p.Y)
	}
	if a.SortByX {
		points = blob.SortByX(points)
	}
	line, err := geometry.FitLine(points)
	if err != nil {
		return nil, err
	}
	return describeLine(line), nil
}

type angleResult struct {
	AngleRadians float64    `json:"angle_radians"`
	AngleDegrees float64    `json:"angle_degrees"`
	Orientation  string     `json:"orientation"`
	Level        bool       `json:"level"`
	Holes        int        `json:"holes"`
	Rejected     int        `json:"rejected"`
	TopCount     int        `json:"top_count"`
	BottomCount  int        `json:"bottom_count"`
	TopLine      lineResult `json:"top_line"`
	BottomLine   lineResult `json:"bottom_line"`
	Strip        rectResult `json:"strip"`
}

func describeMeasurement(m *strip.Measurement, tolerance float64) *angleResult {
	return &angleResult{
		AngleRadians: m.Angle,
		AngleDegrees: geometry.Degrees(m.Angle),
		Orientation:  strip.Orientation(m.Angle, tolerance),
		Level:        m.Angle > -tolerance && m.Angle < tolerance,
		Holes:        len(m.Holes),
		Rejected:     m.Rejected,
		TopCount:     len(m.Top),
		BottomCount:  len(m.Bottom),
		TopLine:      describeLine(m.TopLine),
		BottomLine:   describeLine(m.BottomLine),
		Strip:        toRect(m.Strip),
	}
}

func (s *Server) handleStripEstimateAngle(args json.RawMessage) (interface{}, error) {
	st, img, err := s.pipeline(args)
	if err != nil {
		return nil, err
	}
	m, err := st.Measure(img)
	if err != nil {
		return nil, err
	}
	return describeMeasurement(m, st.Config.Tolerance), nil
}

type stripStraightenArgs struct {
	OutputPath  string  `json:"output_path"`
	ReturnImage bool    `json:"return_image"`
	Scale       float64 `json:"scale"`
}

type passResult struct {
	RotationDegrees float64 `json:"rotation_degrees"`
	ResidualDegrees float64 `json:"residual_degrees"`
	Holes           int     `json:"holes"`
}

type straightenResult struct {
	AngleRadians float64              `json:"angle_radians"`
	AngleDegrees float64              `json:"angle_degrees"`
	Converged    bool                 `json:"converged"`
	Passes       []passResult         `json:"passes"`
	Width        int                  `json:"width"`
	Height       int                  `json:"height"`
	OutputPath   string               `json:"output_path,omitempty"`
	Image        *imaging.ImageResult `json:"image,omitempty"`
	Final        *angleResult         `json:"final,omitempty"`
}

func (s *Server) handleStripStraighten(args json.RawMessage) (interface{}, error) {
	var a stripStraightenArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Scale == 0 {
		a.Scale = 1.0
	}
	st, img, err := s.pipeline(args)
	if err != nil {
		return nil, err
	}

	res, err := st.Straighten(context.Background(), img)
	if err != nil {
		return nil, err
	}

	out := &straightenResult{
		AngleRadians: res.Angle,
		AngleDegrees: res.AngleDegrees,
		Converged:    res.Converged,
		Width:        res.Image.Bounds().Dx(),
		Height:       res.Image.Bounds().Dy(),
	}
	for _, p := range res.Passes {
		out.Passes = append(out.Passes, passResult{
			RotationDegrees: geometry.Degrees(p.Rotation),
			ResidualDegrees: geometry.Degrees(p.Residual),
			Holes:           p.Holes,
		})
	}
	if res.Final != nil {
		out.Final = describeMeasurement(res.Final, st.Config.Tolerance)
	}

	if a.OutputPath != "" {
		if err := imaging.SaveImage(res.Image, a.OutputPath); err != nil {
			return nil, err
		}
		out.OutputPath = a.OutputPath
	}
	if a.ReturnImage {
		if out.Image, err = imaging.EncodePNG(res.Image, a.Scale); err != nil {
			return nil, err
		}
	}
	return out, nil
}

type stripOverlayArgs struct {
	LineColor string  `json:"line_color"`
	ShowBoxes *bool   `json:"show_boxes"`
	Scale     float64 `json:"scale"`
}

type overlayResult struct {
	*imaging.ImageResult
	AngleDegrees float64 `json:"angle_degrees"`
	Orientation  string  `json:"orientation"`
}

func (s *Server) handleStripOverlay(args json.RawMessage) (interface{}, error) {
	var a stripOverlayArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Scale == 0 {
		a.Scale = 1.0
	}
	showBoxes := a.ShowBoxes == nil || *a.ShowBoxes

	st, img, err := s.pipeline(args)
	if err != nil {
		return nil, err
	}
	m, err := st.Measure(img)
	if err != nil {
		return nil, err
	}

	o := imaging.Overlay{
		Lines:       []geometry.Line{m.TopLine, m.BottomLine},
		LineColor:   a.LineColor,
		LabelGroups: true,
	}
	for _, row := range [][]blob.Blob{m.Top, m.Bottom} {
		g := imaging.OverlayGroup{Centers: blob.Centers(row)}
		if showBoxes {
			for _, h := range row {
				g.Boxes = append(g.Boxes, h.Bounds().Rect())
			}
		}
		o.Groups = append(o.Groups, g)
	}

	drawn, err := imaging.DrawOverlay(img, o)
	if err != nil {
		return nil, err
	}
	encoded, err := imaging.EncodePNG(drawn, a.Scale)
	if err != nil {
		return nil, err
	}
	return &overlayResult{
		ImageResult:  encoded,
		AngleDegrees: geometry.Degrees(m.Angle),
		Orientation:  strip.Orientation(m.Angle, st.Config.Tolerance),
	}, nil
}

type stripEdgePrintArgs struct {
	Band      string `json:"band"`
	Language  string `json:"language"`
	Invert    bool   `json:"invert"`
	FlipUpper bool   `json:"flip_upper"`
	OCRScale  int    `json:"ocr_scale"`
}

type bandResult struct {
	Band    string         `json:"band"`
	Bounds  rectResult     `json:"bounds"`
	Skipped string         `json:"skipped,omitempty"`
	Text    *ocr.OCRResult `json:"text,omitempty"`
}

type edgePrintResult struct {
	AngleDegrees float64      `json:"angle_degrees"`
	Converged    bool         `json:"converged"`
	Bands        []bandResult `json:"bands"`
}

func (s *Server) handleStripEdgePrint(args json.RawMessage) (interface{}, error) {
	var a stripEdgePrintArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Band == "" {
		a.Band = "both"
	}
	if a.Band != "upper" && a.Band != "lower" && a.Band != "both" {
		return nil, fmt.Errorf("unknown band %q: want upper, lower or both", a.Band)
	}

	st, img, err := s.pipeline(args)
	if err != nil {
		return nil, err
	}
	res, err := st.Straighten(context.Background(), img)
	if err != nil {
		return nil, err
	}

	// The final measurement predates the last rotation unless the loop
	// converged, and the bands must come from the image being read.
	m := res.Final
	if !res.Converged {
		if m, err = st.Measure(res.Image); err != nil {
			return nil, fmt.Errorf("measure straightened strip: %w", err)
		}
	}
	upper, lower, err := strip.EdgeBands(m.Strip, m.Top, m.Bottom)
	if err != nil {
		return nil, err
	}

	opts := ocr.DefaultOptions()
	if a.Language != "" {
		opts.Language = a.Language
	}
	if a.OCRScale > 0 {
		opts.Scale = a.OCRScale
	}
	opts.Invert = a.Invert

	out := &edgePrintResult{AngleDegrees: res.AngleDegrees, Converged: res.Converged}
	read := func(name string, band image.Rectangle, flip bool) error {
		br := bandResult{Band: name, Bounds: toRect(band)}
		if band.Empty() {
			br.Skipped = "holes reach the strip edge"
			out.Bands = append(out.Bands, br)
			return nil
		}
		bandOpts := opts
		bandOpts.Flip = flip
		text, err := ocr.ReadRegion(res.Image, band, bandOpts)
		if err != nil {
			return fmt.Errorf("%s band: %w", name, err)
		}
		br.Text = text
		out.Bands = append(out.Bands, br)
		return nil
	}

	if a.Band != "lower" {
		if err := read("upper", upper, a.FlipUpper); err != nil {
			return nil, err
		}
	}
	if a.Band != "upper" {
		if err := read("lower", lower, false); err != nil {
			return nil, err
		}
	}
	return out, nil
}

type sampleArgs []struct {
	X     int    `json:"x"`
	Y     int    `json:"y"`
	Label string `json:"label,omitempty"`
}

func (p sampleArgs) labeled() []imaging.LabeledPoint {
	out := make([]imaging.LabeledPoint, len(p))
	for i, s := range p {
		out[i] = imaging.LabeledPoint{X: s.X, Y: s.Y, Label: s.Label}
	}
	return out
}

type stripSuggestThresholdArgs struct {
	Path       string     `json:"path"`
	Background sampleArgs `json:"background"`
	Film       sampleArgs `json:"film"`
}

func (s *Server) handleStripSuggestThreshold(args json.RawMessage) (interface{}, error) {
	var a stripSuggestThresholdArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return imaging.SuggestThreshold(img, a.Background.labeled(), a.Film.labeled())
}

// === Image Helper Handlers ===

type imageInfoArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageInfo(args json.RawMessage) (interface{}, error) {
	var a imageInfoArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.LoadImageInfo(s.cache, a.Path)
}

type imageCropArgs struct {
	Path  string  `json:"path"`
	X1    int     `json:"x1"`
	Y1    int     `json:"y1"`
	X2    int     `json:"x2"`
	Y2    int     `json:"y2"`
	Scale float64 `json:"scale"`
}

func (s *Server) handleImageCrop(args json.RawMessage) (interface{}, error) {
	var a imageCropArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Scale == 0 {
		a.Scale = 1.0
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return imaging.CropEncoded(img, a.X1, a.Y1, a.X2, a.Y2, a.Scale)
}

type imageSampleColorArgs struct {
	Path string `json:"path"`
	X    int    `json:"x"`
	Y    int    `json:"y"`
}

func (s *Server) handleImageSampleColor(args json.RawMessage) (interface{}, error) {
	var a imageSampleColorArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return imaging.SampleColor(img, a.X, a.Y)
}
