package bus

import (
	"context"
	"encoding/json"
)

type Service struct {
	client *Client
}

func NewService(client *Client) *Service {
	return &Service{client: client}
}

func (s *Service) GetArrivals(ctx context.Context, lineCode string) ([]json.RawMessage, error) {
	return s.client.GetPreTime(ctx, lineCode)
}

func (s *Service) GetPlans(ctx context.Context, lineCode string) (json.RawMessage, error) {
	detail, err := s.client.GetLineDetail(ctx, lineCode)
	if err != nil {
		return nil, err
	}
	lineID, err := detail.LineID()
	if err != nil {
		return nil, &UpstreamError{Message: "line id missing from detail payload"}
	}
	return s.client.GetPlanTime(ctx, lineID)
}

// GetRealTimeInfo aggregates everything the app's line screen needs. Line
// detail and arrival predictions are independent upstream calls, so they run
// concurrently; the plan-time call needs the line id from the detail payload
// and runs after it.
func (s *Service) GetRealTimeInfo(ctx context.Context, lineCode string) (*RealTimeInfo, error) {
	type arrivalsResult struct {
		arrivals []json.RawMessage
		err      error
	}

	arrivalsCh := make(chan arrivalsResult, 1)
	go func() {
		arrivals, err := s.client.GetPreTime(ctx, lineCode)
		arrivalsCh <- arrivalsResult{arrivals: arrivals, err: err}
	}()

	detail, err := s.client.GetLineDetail(ctx, lineCode)
	if err != nil {
		return nil, err
	}
	lineID, err := detail.LineID()
	if err != nil {
		return nil, &UpstreamError{Message: "line id missing from detail payload"}
	}

	plans, err := s.client.GetPlanTime(ctx, lineID)
	if err != nil {
		return nil, err
	}

	ar := <-arrivalsCh
	if ar.err != nil {
		return nil, ar.err
	}

	return &RealTimeInfo{
		LineDetail:   detail.Base,
		BusPositions: detail.Buses,
		Stops:        detail.Stops,
		Plans:        plans,
		Arrivals:     ar.arrivals,
	}, nil
}
