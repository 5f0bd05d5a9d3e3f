package bus

import "encoding/json"

// Upstream payloads are passed through to clients mostly untouched; only the
// fields the aggregation needs are decoded.

type LineDetail struct {
	Base  json.RawMessage `json:"lineDetailBaseDto"`
	Buses json.RawMessage `json:"lineBusDtoList"`
	Stops json.RawMessage `json:"stopDetailList"`
}

type lineBase struct {
	LineID json.Number `json:"lineId"`
}

// LineID digs the upstream line identifier out of the detail payload; the
// plan-time endpoint is keyed by it rather than by line code.
func (d *LineDetail) LineID() (string, error) {
	var base lineBase
	if err := json.Unmarshal(d.Base, &base); err != nil {
		return "", err
	}
	return base.LineID.String(), nil
}

// RealTimeInfo is the aggregated response for a line.
type RealTimeInfo struct {
	LineDetail   json.RawMessage   `json:"lineDetail"`
	BusPositions json.RawMessage   `json:"busPositions"`
	Stops        json.RawMessage   `json:"stops"`
	Plans        json.RawMessage   `json:"plans"`
	Arrivals     []json.RawMessage `json:"arrivals"`
}
