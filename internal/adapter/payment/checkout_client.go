package payment

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/rl1809/asset-desk/internal/core/domain"
)

// CheckoutClient talks to the external payment provider. The provider calls
// back into /api/payments/complete once the session is paid.
type CheckoutClient struct {
	client *resty.Client
}

func NewCheckoutClient(baseURL string) *CheckoutClient {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(10 * time.Second)
	return &CheckoutClient{client: client}
}

type checkoutSessionRequest struct {
	CompanyID   string `json:"company_id"`
	Tier        string `json:"tier"`
	ProductName string `json:"product_name"`
	Amount      int64  `json:"amount"`
}

type checkoutSessionResponse struct {
	URL string `json:"url"`
}

func (c *CheckoutClient) CreateCheckoutSession(ctx context.Context, companyID string, tier domain.Tier) (string, error) {
	var out checkoutSessionResponse

	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(checkoutSessionRequest{
			CompanyID:   companyID,
			Tier:        tier.Name,
			ProductName: tier.DisplayName,
			Amount:      tier.PriceMinorUnits,
		}).
		SetResult(&out).
		Post("/v1/checkout/sessions")
	if err != nil {
		return "", fmt.Errorf("create checkout session: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("create checkout session: provider returned %s", resp.Status())
	}
	if out.URL == "" {
		return "", fmt.Errorf("create checkout session: provider returned no redirect url")
	}

	return out.URL, nil
}
