package services

import (
	"database/sql"
	"time"

	intconfig "campusshuttle/internal/config"
	"campusshuttle/internal/domain/models"
	"campusshuttle/internal/planner"
	"campusshuttle/internal/repositories"
)

// PlannerService builds a network snapshot from the database and runs the
// itinerary engine over it. Read-only; safe to run concurrently with any
// number of bookings.
type PlannerService struct {
	StopRepo  repositories.StopRepository
	RouteRepo repositories.RouteRepository
	Scorer    planner.Scorer
	DB        *sql.DB
}

func (s PlannerService) db() *sql.DB {
	if s.DB != nil {
		return s.DB
	}
	return intconfig.DB
}

func (s PlannerService) stops() repositories.StopRepository {
	if s.StopRepo.DB != nil {
		return s.StopRepo
	}
	return repositories.StopRepository{DB: s.db()}
}

func (s PlannerService) routes() repositories.RouteRepository {
	if s.RouteRepo.DB != nil {
		return s.RouteRepo
	}
	return repositories.RouteRepository{DB: s.db()}
}

// Plan loads the active network and searches it.
func (s PlannerService) Plan(originStopID, destinationStopID string, departure time.Time) ([]planner.Itinerary, error) {
	stops, err := s.stops().ListStops(false)
	if err != nil {
		return nil, err
	}
	routes, err := s.routes().ListRoutesWithDetails()
	if err != nil {
		return nil, err
	}

	stopIndex := make(map[string]models.Stop, len(stops))
	for _, st := range stops {
		stopIndex[st.ID] = st
	}

	engine := planner.Engine{
		Network: planner.Network{Stops: stopIndex, Routes: routes},
		Scorer:  s.Scorer,
	}
	return engine.Plan(originStopID, destinationStopID, departure)
}

// StopDirectory returns the id→name map used by the presenter.
func (s PlannerService) StopDirectory() (planner.StopDirectory, error) {
	stops, err := s.stops().ListStops(false)
	if err != nil {
		return nil, err
	}
	dir := planner.StopDirectory{}
	for _, st := range stops {
		dir[st.ID] = st.Name
	}
	return dir, nil
}
