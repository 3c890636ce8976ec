//go:build pact
// +build pact

package consumer_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	pacttest "github.com/bloodlink/bloodlink-api/test/pact"

	pactconsumer "github.com/pact-foundation/pact-go/v2/consumer"
	pactlog "github.com/pact-foundation/pact-go/v2/log"
	"github.com/pact-foundation/pact-go/v2/matchers"
	"github.com/stretchr/testify/require"
)

type urgentCallRow struct {
	Call struct {
		ID          int64  `json:"id"`
		Description string `json:"description"`
	} `json:"call"`
	Hospital struct {
		Name  string `json:"name"`
		Phone string `json:"phone"`
	} `json:"hospital"`
}

type bloodDriveRow struct {
	Drive struct {
		ID          int64  `json:"id"`
		Description string `json:"description"`
	} `json:"drive"`
	BloodBank struct {
		Name string `json:"name"`
	} `json:"bloodBank"`
}

type heroRow struct {
	ID            int64  `json:"id"`
	FirstName     string `json:"firstName"`
	DonationTimes int32  `json:"donationTimes"`
}

type problemDetail struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail"`
}

type apiError struct {
	status int
	title  string
	detail string
}

func (e apiError) Error() string {
	msg := e.title
	if msg == "" {
		msg = "api error"
	}
	if e.detail != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.detail)
	}
	return fmt.Sprintf("%s (status %d)", msg, e.status)
}

func (e apiError) Status() int {
	return e.status
}

func TestDonorPortalContract(t *testing.T) {
	t.Helper()
	pactlog.SetLogLevel("INFO")

	pact, err := pactconsumer.NewV2Pact(pactconsumer.MockHTTPProviderConfig{
		Consumer: pacttest.ConsumerName,
		Provider: pacttest.ProviderName,
		PactDir:  pacttest.PactDir(t),
		LogDir:   pacttest.LogDir(t),
	})
	require.NoError(t, err)

	jsonContentType := matchers.Regex("application/json; charset=utf-8", "application\\/json(?:;\\s?charset=utf-8)?")

	urgentCallMatcher := matchers.Map{
		"call": matchers.Map{
			"id":          matchers.Like(1),
			"hospitalId":  matchers.Like(1),
			"gov":         matchers.Like("4"),
			"city":        matchers.Like("12"),
			"description": matchers.Like("Urgent need after a traffic accident"),
			"bloodGroup": matchers.ArrayMinLike(matchers.Map{
				"bloodType": matchers.Term("O-", "(A|B|AB|O)[+-]"),
				"count":     matchers.Like(5),
			}, 1),
		},
		"hospital": matchers.Map{
			"id":    matchers.Like(1),
			"name":  matchers.Like("Pact General Hospital"),
			"phone": matchers.Like("0223456789"),
		},
	}

	bloodDriveMatcher := matchers.Map{
		"drive": matchers.Map{
			"id":          matchers.Like(1),
			"bloodBankId": matchers.Like(2),
			"phone":       matchers.Like("0223456789"),
			"description": matchers.Like("Quarterly community blood drive"),
		},
		"bloodBank": matchers.Map{
			"id":   matchers.Like(2),
			"name": matchers.Like("Pact Central Blood Bank"),
		},
	}

	heroMatcher := matchers.Map{
		"id":            matchers.Like(1),
		"firstName":     matchers.Like("Pact"),
		"lastName":      matchers.Like("Donor"),
		"bloodType":     matchers.Term("O-", "(A|B|AB|O)[+-]"),
		"donationTimes": matchers.Like(0),
	}

	pact.AddInteraction().
		Given(pacttest.StateUrgentCallsExist).
		UponReceiving("a request to list urgent calls").
		WithRequest("GET", "/v1/urgent-calls").
		WillRespondWith(http.StatusOK, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(matchers.EachLike(urgentCallMatcher, 1))
		})

	pact.AddInteraction().
		Given(pacttest.StateBloodDrivesExist).
		UponReceiving("a request to list blood drives").
		WithRequest("GET", "/v1/blood-drives").
		WillRespondWith(http.StatusOK, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(matchers.EachLike(bloodDriveMatcher, 1))
		})

	pact.AddInteraction().
		Given(pacttest.StateHeroesBaseline).
		UponReceiving("a request to list top donors").
		WithRequest("GET", "/v1/donors/heroes").
		WillRespondWith(http.StatusOK, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(matchers.EachLike(heroMatcher, 1))
		})

	pact.AddInteraction().
		Given(pacttest.StateHeroesBaseline).
		UponReceiving("a request to list top donors with a bad limit").
		WithRequest("GET", "/v1/donors/heroes", func(b *pactconsumer.V2RequestBuilder) {
			b.Query("limit", matchers.S("abc"))
		}).
		WillRespondWith(http.StatusBadRequest, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", matchers.S("application/problem+json"))
			b.JSONBody(matchers.Map{
				"type":   matchers.Like("/problems/bad-request"),
				"title":  matchers.Like("Bad Request"),
				"status": matchers.Like(http.StatusBadRequest),
			})
		})

	err = pact.ExecuteTest(t, func(config pactconsumer.MockServerConfig) error {
		client := newPortalClient(config)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		calls, err := client.ListUrgentCalls(ctx)
		if err != nil {
			return fmt.Errorf("list urgent calls: %w", err)
		}
		if len(calls) == 0 || calls[0].Hospital.Name == "" {
			return fmt.Errorf("expected urgent calls with hospital details, got %+v", calls)
		}

		drives, err := client.ListBloodDrives(ctx)
		if err != nil {
			return fmt.Errorf("list blood drives: %w", err)
		}
		if len(drives) == 0 || drives[0].BloodBank.Name == "" {
			return fmt.Errorf("expected blood drives with bank details, got %+v", drives)
		}

		heroes, err := client.ListHeroes(ctx, "")
		if err != nil {
			return fmt.Errorf("list heroes: %w", err)
		}
		if len(heroes) == 0 {
			return fmt.Errorf("expected at least one hero")
		}

		if _, err := client.ListHeroes(ctx, "abc"); err == nil {
			return fmt.Errorf("expected 400 for a non-numeric limit")
		} else if apiErr, ok := err.(apiError); ok && apiErr.Status() != http.StatusBadRequest {
			return fmt.Errorf("expected 400, got %d", apiErr.Status())
		}

		return nil
	})
	require.NoError(t, err)
}

type portalClient struct {
	baseURL    string
	httpClient *http.Client
}

func newPortalClient(config pactconsumer.MockServerConfig) *portalClient {
	host := config.Host
	if host == "" {
		host = "localhost"
	}
	transport := &http.Transport{TLSClientConfig: config.TLSConfig}
	client := &http.Client{Transport: transport, Timeout: 10 * time.Second}
	return &portalClient{
		baseURL:    fmt.Sprintf("http://%s:%d", host, config.Port),
		httpClient: client,
	}
}

func (c *portalClient) ListUrgentCalls(ctx context.Context) ([]urgentCallRow, error) {
	var rows []urgentCallRow
	if err := c.getJSON(ctx, c.baseURL+"/v1/urgent-calls", &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (c *portalClient) ListBloodDrives(ctx context.Context) ([]bloodDriveRow, error) {
	var rows []bloodDriveRow
	if err := c.getJSON(ctx, c.baseURL+"/v1/blood-drives", &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (c *portalClient) ListHeroes(ctx context.Context, limit string) ([]heroRow, error) {
	url := c.baseURL + "/v1/donors/heroes"
	if limit != "" {
		url += "?limit=" + limit
	}
	var rows []heroRow
	if err := c.getJSON(ctx, url, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (c *portalClient) getJSON(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	res, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode >= http.StatusBadRequest {
		return decodeAPIError(res)
	}
	return json.NewDecoder(res.Body).Decode(out)
}

func decodeAPIError(res *http.Response) error {
	var problem problemDetail
	_ = json.NewDecoder(res.Body).Decode(&problem)
	status := problem.Status
	if status == 0 {
		status = res.StatusCode
	}
	return apiError{
		status: status,
		title:  problem.Title,
		detail: problem.Detail,
	}
}
