package currency

import (
	"encoding/json"
	"fmt"
	"log"
	"math"
	"net/http"
	"time"
)

const defaultRateURL = "https://api.exchangerate-api.com/v4/latest/USD"

// FallbackINRRate is used when the rate service is unreachable. Order
// creation never blocks on a currency outage.
const FallbackINRRate = 83

type Converter struct {
	Client *http.Client
	URL    string
}

func New() *Converter {
	return &Converter{
		Client: &http.Client{Timeout: 10 * time.Second},
		URL:    defaultRateURL,
	}
}

// USDToINR converts a USD amount to whole rupees at the live rate,
// falling back to FallbackINRRate on any lookup failure.
func (c *Converter) USDToINR(usd float64) int64 {
	rate, err := c.fetchINRRate()
	if err != nil {
		log.Println("Currency API failed. Using fallback INR rate:", err)
		rate = FallbackINRRate
	}
	return int64(math.Round(usd * rate))
}

func (c *Converter) fetchINRRate() (float64, error) {
	resp, err := c.Client.Get(c.URL)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("currency: unexpected status %d", resp.StatusCode)
	}

	var body struct {
		Rates map[string]float64 `json:"rates"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0, err
	}

	rate, ok := body.Rates["INR"]
	if !ok || rate <= 0 {
		return 0, fmt.Errorf("currency: INR rate missing from response")
	}
	return rate, nil
}
