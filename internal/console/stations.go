package console

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/lbatschelet/feelvonroll-admin/internal/platform"
	"github.com/lbatschelet/feelvonroll-admin/internal/state"
)

type StationAPI interface {
	ListStations(ctx context.Context, token string) ([]platform.Station, error)
	UpsertStation(ctx context.Context, token string, s platform.Station) error
	DeleteStation(ctx context.Context, token, stationKey string) error
}

// StationsController manages the QR-code stations. The public URL printed on
// a station's QR code is derived from its key and the installation base URL.
type StationsController struct {
	store   *state.Store
	api     StationAPI
	tok     TokenSource
	baseURL string
}

func NewStationsController(store *state.Store, api StationAPI, tok TokenSource, installationURL string) *StationsController {
	return &StationsController{
		store:   store,
		api:     api,
		tok:     tok,
		baseURL: strings.TrimRight(installationURL, "/"),
	}
}

func (c *StationsController) Load(ctx context.Context) error {
	stations, err := c.api.ListStations(ctx, c.tok())
	if err != nil {
		return err
	}
	for i := range stations {
		if stations[i].URL == "" {
			stations[i].URL = c.stationURL(stations[i].StationKey)
		}
	}
	c.store.Lock()
	c.store.Stations = stations
	c.store.Unlock()
	return nil
}

func (c *StationsController) stationURL(key string) string {
	return c.baseURL + "/?station=" + key
}

type StationsPage struct {
	Stations []platform.Station `json:"stations"`
	Status   string             `json:"status,omitempty"`
}

func (c *StationsController) Render() StationsPage {
	c.store.Lock()
	defer c.store.Unlock()
	return StationsPage{Stations: c.store.Stations, Status: c.store.Status}
}

func (c *StationsController) Save(ctx context.Context, s platform.Station) error {
	s.StationKey = strings.TrimSpace(s.StationKey)
	if s.StationKey == "" {
		s.StationKey = shortID(8)
	}
	if strings.TrimSpace(s.Label) == "" {
		return NewInvalidError("station label required")
	}
	if err := c.api.UpsertStation(ctx, c.tok(), s); err != nil {
		return err
	}
	return c.Load(ctx)
}

func (c *StationsController) Delete(ctx context.Context, stationKey string) error {
	if err := c.api.DeleteStation(ctx, c.tok(), stationKey); err != nil {
		return err
	}
	return c.Load(ctx)
}

func shortID(n int) string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:n]
}
