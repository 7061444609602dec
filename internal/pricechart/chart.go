package pricechart

// Trace and Layout mirror the payload the page hands to its chart renderer.
type Trace struct {
	X         []string `json:"x"`
	Y         []int64  `json:"y"`
	Mode      string   `json:"mode"`
	Type      string   `json:"type"`
	Name      string   `json:"name"`
	Line      Line     `json:"line"`
	Marker    Marker   `json:"marker"`
	Fill      string   `json:"fill"`
	FillColor string   `json:"fillcolor"`
}

type Line struct {
	Color string `json:"color"`
	Width int    `json:"width"`
}

type Marker struct {
	Size int `json:"size"`
}

type Axis struct {
	Title string `json:"title"`
}

type Font struct {
	Color string `json:"color"`
	Size  int    `json:"size"`
}

type Margin struct {
	L int `json:"l"`
	R int `json:"r"`
	T int `json:"t"`
	B int `json:"b"`
}

type Layout struct {
	Title     string `json:"title"`
	XAxis     Axis   `json:"xaxis"`
	YAxis     Axis   `json:"yaxis"`
	PlotBG    string `json:"plot_bgcolor"`
	PaperBG   string `json:"paper_bgcolor"`
	Font      Font   `json:"font"`
	Margin    Margin `json:"margin"`
	HoverMode string `json:"hovermode"`
}

type Chart struct {
	Points []PricePoint `json:"points"`
	Traces []Trace      `json:"traces"`
	Layout Layout       `json:"layout"`
}

// HistoryEntry is the {date, price} shape served by the price-history API.
type HistoryEntry struct {
	Date  string `json:"date"`
	Price int64  `json:"price"`
}

func NewChart(points []PricePoint) Chart {
	x := make([]string, len(points))
	y := make([]int64, len(points))
	for i, p := range points {
		x[i] = p.Label
		y[i] = p.Value
	}

	return Chart{
		Points: points,
		Traces: []Trace{{
			X:         x,
			Y:         y,
			Mode:      "lines+markers",
			Type:      "scatter",
			Name:      "Price",
			Line:      Line{Color: "#ff6b35", Width: 3},
			Marker:    Marker{Size: 6},
			Fill:      "tozeroy",
			FillColor: "rgba(255, 107, 53, 0.15)",
		}},
		Layout: DefaultLayout(),
	}
}

func DefaultLayout() Layout {
	return Layout{
		Title:     "30-Day Price History (₹)",
		XAxis:     Axis{Title: "Date"},
		YAxis:     Axis{Title: "Price in Rupees (₹)"},
		PlotBG:    "#f9f9f9",
		PaperBG:   "#fff",
		Font:      Font{Color: "#333", Size: 11},
		Margin:    Margin{L: 70, R: 40, T: 50, B: 60},
		HoverMode: "x unified",
	}
}

func History(points []PricePoint) []HistoryEntry {
	out := make([]HistoryEntry, 0, len(points))
	for _, p := range points {
		out = append(out, HistoryEntry{Date: p.Label, Price: p.Value})
	}
	return out
}
