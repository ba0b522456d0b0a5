package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
)

// HTTPGateway calls a payment gateway over HTTP. 200 is an approval, 400 a
// decline; anything else is an error.
type HTTPGateway struct {
	url    string
	client *http.Client
}

func NewHTTPGateway(baseURL string, timeout time.Duration) *HTTPGateway {
	return &HTTPGateway{
		url:    strings.TrimRight(baseURL, "/") + "/mock/payment-gateway",
		client: &http.Client{Timeout: timeout},
	}
}

func (g *HTTPGateway) Charge(ctx context.Context, req ChargeRequest) (ChargeResult, error) {
	var res ChargeResult
	status, err := postJSON(ctx, g.client, g.url, req, &res)
	if err != nil {
		log.Println("Error from payment gateway: ", err)
		return ChargeResult{}, err
	}
	res.Success = status == http.StatusOK
	return res, nil
}

type HTTPInsurance struct {
	eligibilityURL string
	claimsURL      string
	client         *http.Client
}

func NewHTTPInsurance(baseURL string, timeout time.Duration) *HTTPInsurance {
	base := strings.TrimRight(baseURL, "/") + "/mock/insurance-provider"
	return &HTTPInsurance{
		eligibilityURL: base,
		claimsURL:      base + "/claims",
		client:         &http.Client{Timeout: timeout},
	}
}

func (p *HTTPInsurance) CheckEligibility(ctx context.Context, req EligibilityRequest) (EligibilityResult, error) {
	var res EligibilityResult
	status, err := postJSON(ctx, p.client, p.eligibilityURL, req, &res)
	if err != nil {
		log.Println("Error from insurance eligibility: ", err)
		return EligibilityResult{}, err
	}
	res.Eligible = status == http.StatusOK
	return res, nil
}

func (p *HTTPInsurance) SubmitClaim(ctx context.Context, req ClaimRequest) (ClaimResult, error) {
	var res ClaimResult
	status, err := postJSON(ctx, p.client, p.claimsURL, req, &res)
	if err != nil {
		log.Println("Error from insurance claim: ", err)
		return ClaimResult{}, err
	}
	res.Approved = status == http.StatusOK
	return res, nil
}

/*
* Post the body as json and decode the reply into out
* 200 and 400 are both answers, the caller reads the status
 */
func postJSON(ctx context.Context, client *http.Client, url string, body, out interface{}) (int, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return 0, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusBadRequest {
		return resp.StatusCode, fmt.Errorf("unexpected status %d from %s", resp.StatusCode, url)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return resp.StatusCode, err
	}
	return resp.StatusCode, nil
}
