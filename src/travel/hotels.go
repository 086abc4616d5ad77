package travel

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/bytedance/sonic"

	"travel_dialogue_engine/src/logger"
)

const (
	hotelsByGeocodePath = "/v1/reference-data/locations/hotels/by-geocode"
	hotelOffersPath     = "/v3/shopping/hotel-offers"

	// maxHotelIDs caps how many hotels are priced per search. The offers
	// endpoint rejects overly long hotelIds lists.
	maxHotelIDs = 10
)

// HotelOffer is a priced hotel stay.
type HotelOffer struct {
	HotelID     string `json:"hotelId"`
	Name        string `json:"name"`
	Rating      string `json:"rating"`
	Total       string `json:"total"`
	Currency    string `json:"currency"`
	BoardType   string `json:"boardType,omitempty"`
	Description string `json:"description,omitempty"`
}

type hotelListResponse struct {
	Data []struct {
		HotelID  string `json:"hotelId"`
		Name     string `json:"name"`
		Rating   string `json:"rating"`
		Distance struct {
			Value float64 `json:"value"`
		} `json:"distance"`
	} `json:"data"`
}

type hotelOffersResponse struct {
	Data []struct {
		Hotel struct {
			HotelID string `json:"hotelId"`
			Name    string `json:"name"`
			Rating  string `json:"rating"`
		} `json:"hotel"`
		Available bool `json:"available"`
		Offers    []struct {
			Price struct {
				Total    string `json:"total"`
				Currency string `json:"currency"`
			} `json:"price"`
			BoardType       string `json:"boardType"`
			RoomInformation struct {
				Description string `json:"description"`
			} `json:"roomInformation"`
		} `json:"offers"`
	} `json:"data"`
}

// SearchHotels finds priced hotel offers in a city for the given stay.
// Budget level narrows the star-rating filter; guests must be at least 1.
func (c *Client) SearchHotels(ctx context.Context, city, checkIn, checkOut string, guests int, budgetLevel string) ([]HotelOffer, error) {
	if guests < 1 {
		guests = 1
	}

	coords, err := c.Geocode(ctx, city)
	if err != nil {
		return nil, err
	}

	listQuery := url.Values{}
	listQuery.Set("latitude", strconv.FormatFloat(coords.Latitude, 'f', -1, 64))
	listQuery.Set("longitude", strconv.FormatFloat(coords.Longitude, 'f', -1, 64))
	listQuery.Set("radius", "5")
	listQuery.Set("radiusUnit", "KM")
	listQuery.Set("hotelSource", "ALL")
	if ratings := HotelRatingsForBudget(budgetLevel); ratings != "" {
		listQuery.Set("ratings", ratings)
	}

	listBody, err := c.get(ctx, hotelsByGeocodePath, listQuery)
	if err != nil {
		return nil, err
	}

	var hotelList hotelListResponse
	if err := sonic.Unmarshal(listBody, &hotelList); err != nil {
		return nil, fmt.Errorf("error parsing hotel list response: %v", err)
	}
	if len(hotelList.Data) == 0 {
		return nil, nil
	}

	// Closest hotels first, then cap the list for the offers request.
	sort.SliceStable(hotelList.Data, func(i, j int) bool {
		return hotelList.Data[i].Distance.Value < hotelList.Data[j].Distance.Value
	})
	if len(hotelList.Data) > maxHotelIDs {
		hotelList.Data = hotelList.Data[:maxHotelIDs]
	}

	ids := make([]string, 0, len(hotelList.Data))
	names := make(map[string]string, len(hotelList.Data))
	ratings := make(map[string]string, len(hotelList.Data))
	for _, hotel := range hotelList.Data {
		if hotel.HotelID == "" {
			continue
		}
		ids = append(ids, hotel.HotelID)
		names[hotel.HotelID] = hotel.Name
		ratings[hotel.HotelID] = hotel.Rating
	}
	if len(ids) == 0 {
		return nil, nil
	}

	offersQuery := url.Values{}
	offersQuery.Set("hotelIds", strings.Join(ids, ","))
	offersQuery.Set("adults", strconv.Itoa(guests))
	offersQuery.Set("checkInDate", checkIn)
	offersQuery.Set("checkOutDate", checkOut)
	offersQuery.Set("roomQuantity", "1")
	offersQuery.Set("includeClosed", "false")
	offersQuery.Set("bestRateOnly", "true")

	offersBody, err := c.get(ctx, hotelOffersPath, offersQuery)
	if err != nil {
		return nil, err
	}

	var parsed hotelOffersResponse
	if err := sonic.Unmarshal(offersBody, &parsed); err != nil {
		return nil, fmt.Errorf("error parsing hotel offers response: %v", err)
	}

	offers := make([]HotelOffer, 0, len(parsed.Data))
	for _, entry := range parsed.Data {
		if !entry.Available || len(entry.Offers) == 0 {
			continue
		}
		offer := HotelOffer{
			HotelID:     entry.Hotel.HotelID,
			Name:        entry.Hotel.Name,
			Rating:      entry.Hotel.Rating,
			Total:       entry.Offers[0].Price.Total,
			Currency:    entry.Offers[0].Price.Currency,
			BoardType:   entry.Offers[0].BoardType,
			Description: entry.Offers[0].RoomInformation.Description,
		}
		if offer.Name == "" {
			offer.Name = names[offer.HotelID]
		}
		if offer.Rating == "" {
			offer.Rating = ratings[offer.HotelID]
		}
		offers = append(offers, offer)
	}

	logger.Debug().
		Str("city", city).
		Int("candidates", len(ids)).
		Int("offers", len(offers)).
		Msg("Fetched hotel offers")

	return offers, nil
}
