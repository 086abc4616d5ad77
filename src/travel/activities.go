package travel

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/bytedance/sonic"

	"travel_dialogue_engine/src/logger"
)

const activitiesPath = "/v1/shopping/activities"

// Price is a money amount as the API reports it.
type Price struct {
	Amount       string `json:"amount"`
	CurrencyCode string `json:"currencyCode"`
}

// Activity is a bookable tour or attraction in a city.
type Activity struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	ShortDescription string `json:"shortDescription"`
	Rating           string `json:"rating"`
	Price            Price  `json:"price"`
	Category         string `json:"category"`
}

type activitiesResponse struct {
	Data []struct {
		ID               string `json:"id"`
		Name             string `json:"name"`
		ShortDescription string `json:"shortDescription"`
		Rating           string `json:"rating"`
		Price            Price  `json:"price"`
	} `json:"data"`
}

// SearchActivities returns the activities on offer around a city, each
// tagged with its inferred category.
func (c *Client) SearchActivities(ctx context.Context, city string) ([]Activity, error) {
	coords, err := c.Geocode(ctx, city)
	if err != nil {
		return nil, err
	}

	query := url.Values{}
	query.Set("latitude", strconv.FormatFloat(coords.Latitude, 'f', -1, 64))
	query.Set("longitude", strconv.FormatFloat(coords.Longitude, 'f', -1, 64))
	query.Set("radius", strconv.Itoa(c.radiusKM))

	body, err := c.get(ctx, activitiesPath, query)
	if err != nil {
		return nil, err
	}

	var parsed activitiesResponse
	if err := sonic.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("error parsing activities response: %v", err)
	}

	activities := make([]Activity, 0, len(parsed.Data))
	for _, entry := range parsed.Data {
		if entry.Name == "" {
			continue
		}
		activities = append(activities, Activity{
			ID:               entry.ID,
			Name:             entry.Name,
			ShortDescription: entry.ShortDescription,
			Rating:           entry.Rating,
			Price:            entry.Price,
			Category:         CategorizeActivity(entry.Name, entry.ShortDescription),
		})
	}

	logger.Debug().
		Str("city", city).
		Int("count", len(activities)).
		Msg("Fetched activities")

	return activities, nil
}

// FilterActivitiesByCategory keeps the activities in the given category.
// Empty and general categories match everything.
func FilterActivitiesByCategory(activities []Activity, category string) []Activity {
	if category == "" || category == CategoryGeneral {
		return activities
	}

	filtered := make([]Activity, 0, len(activities))
	for _, activity := range activities {
		if activity.Category == category {
			filtered = append(filtered, activity)
		}
	}
	return filtered
}
