package shipping

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"

	"vestire/models"
	"vestire/utils"

	"github.com/guonaihong/gout"
	"github.com/julienschmidt/httprouter"
)

const (
	defaultGeocodeBaseURL = "https://maps.googleapis.com/maps/api/geocode/json"
	defaultPlacesBaseURL  = "https://places.googleapis.com/v1/places:searchText"
)

// Resolver finds courier pickup offices for a locality through the Google
// Geocoding and Places APIs.
type Resolver struct {
	GeocodeURL string
	PlacesURL  string
	APIKey     string
}

func NewResolver() *Resolver {
	return &Resolver{
		GeocodeURL: defaultGeocodeBaseURL,
		PlacesURL:  defaultPlacesBaseURL,
		APIKey:     os.Getenv("GOOGLE_MAPS_API_KEY"),
	}
}

type geocodeResponse struct {
	Status  string `json:"status"`
	Results []struct {
		FormattedAddress string `json:"formatted_address"`
		Geometry         struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
}

type placesResponse struct {
	Places []struct {
		DisplayName struct {
			Text string `json:"text"`
		} `json:"displayName"`
		FormattedAddress string `json:"formattedAddress"`
		Location         struct {
			Latitude  float64 `json:"latitude"`
			Longitude float64 `json:"longitude"`
		} `json:"location"`
	} `json:"places"`
}

func (rs *Resolver) geocode(ctx context.Context, locality, province string) (geocodeResponse, error) {
	var resp geocodeResponse
	var code int

	address := fmt.Sprintf("%s, %s, Argentina", locality, province)
	err := gout.GET(rs.GeocodeURL).
		WithContext(ctx).
		SetQuery(gout.H{"address": address, "key": rs.APIKey}).
		BindJSON(&resp).
		Code(&code).
		Do()
	if err != nil {
		return resp, err
	}
	if code != 200 {
		return resp, fmt.Errorf("geocoding failed with status %d", code)
	}
	return resp, nil
}

func (rs *Resolver) searchOffices(ctx context.Context, locality, province string) (placesResponse, error) {
	var resp placesResponse
	var code int

	query := fmt.Sprintf("sucursales de correo en %s, %s, Argentina", locality, province)
	err := gout.POST(rs.PlacesURL).
		WithContext(ctx).
		SetHeader(gout.H{
			"Content-Type":     "application/json",
			"X-Goog-Api-Key":   rs.APIKey,
			"X-Goog-FieldMask": "places.displayName,places.formattedAddress,places.location",
		}).
		SetJSON(gout.H{"textQuery": query}).
		BindJSON(&resp).
		Code(&code).
		Do()
	if err != nil {
		return resp, err
	}
	if code != 200 {
		return resp, fmt.Errorf("place search failed with status %d", code)
	}
	return resp, nil
}

// Retailers resolves pickup offices for a locality. The locality must
// actually appear in the geocoded address so a typo does not silently return
// offices of some better-known town.
func (rs *Resolver) Retailers(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx := r.Context()

	var input struct {
		Localidad string `json:"localidad"`
		Provincia string `json:"provincia"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}
	if input.Localidad == "" || input.Provincia == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "localidad and provincia are required")
		return
	}

	geo, err := rs.geocode(ctx, input.Localidad, input.Provincia)
	if err != nil {
		log.Printf("Retailers geocode error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to locate the city")
		return
	}
	if geo.Status != "OK" || len(geo.Results) == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "City not found")
		return
	}
	if !containsLocality(geo.Results[0].FormattedAddress, input.Localidad) {
		utils.RespondWithError(w, http.StatusNotFound, "City not found")
		return
	}

	places, err := rs.searchOffices(ctx, input.Localidad, input.Provincia)
	if err != nil {
		log.Printf("Retailers place search error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to search pickup points")
		return
	}
	if len(places.Places) == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "No pickup points found in this city")
		return
	}

	points := make([]models.PickupPoint, 0, len(places.Places))
	for _, p := range places.Places {
		points = append(points, models.PickupPoint{
			Name:    p.DisplayName.Text,
			Address: p.FormattedAddress,
			Lat:     p.Location.Latitude,
			Lng:     p.Location.Longitude,
		})
	}
	utils.RespondWithJSON(w, http.StatusOK, points)
}
