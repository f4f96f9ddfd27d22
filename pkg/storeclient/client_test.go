package storeclient_test

import (
	"context"
	"encoding/base64"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daliaibrahim58/greenmart/app/models"
	clienthttp "github.com/daliaibrahim58/greenmart/pkg/http"
	"github.com/daliaibrahim58/greenmart/pkg/storeclient"
	"github.com/daliaibrahim58/greenmart/pkg/testkit"
)

func b64(body string) string {
	return base64.StdEncoding.EncodeToString([]byte(body))
}

// mockServer installs a MockTransport answering the given steps on the shared
// client and restores the real transport when the test finishes.
func mockServer(t *testing.T, steps ...testkit.MockStep) {
	t.Helper()
	scenario := &testkit.Scenario{Name: t.Name(), IsMockRequired: true, NetUtilMockStep: steps}
	clienthttp.DefaultClient.Transport = testkit.NewMockTransport(scenario)
	t.Cleanup(clienthttp.ResetTransport)
}

func TestLoginReturnsAuthenticatedClient(t *testing.T) {
	mockServer(t, testkit.MockStep{
		Method:   "httprequest",
		IsMock:   true,
		MatchURL: "http://shop.test/api/login",
		ReturnData: testkit.MockReturnData{
			StatusCode: 200,
			Body:       b64(`{"status":200,"data":{"token":"tok-123","user":{"userName":"Admin User"}}}`),
		},
	})

	authed, err := storeclient.New("http://shop.test/").Login(context.Background(), "admin@shop.com", "admin123")
	require.NoError(t, err)

	// The returned client carries the token; authenticated calls now pass the
	// token guard (the transport has no mock for the order URL, so the call
	// itself fails, but not with ErrNoToken).
	err = authed.DeleteOrder(context.Background(), 1)
	assert.NotErrorIs(t, err, storeclient.ErrNoToken)
}

func TestLoginRejectsMissingToken(t *testing.T) {
	mockServer(t, testkit.MockStep{
		Method:   "httprequest",
		IsMock:   true,
		MatchURL: "http://shop.test/api/login",
		ReturnData: testkit.MockReturnData{
			StatusCode: 200,
			Body:       b64(`{"status":200,"data":{}}`),
		},
	})

	_, err := storeclient.New("http://shop.test").Login(context.Background(), "admin@shop.com", "admin123")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no token")
}

func TestFetchProductDecodesEnvelope(t *testing.T) {
	mockServer(t, testkit.MockStep{
		Method:   "httprequest",
		IsMock:   true,
		MatchURL: "http://shop.test/api/products/7",
		ReturnData: testkit.MockReturnData{
			StatusCode: 200,
			Body:       b64(`{"status":200,"data":{"name":"Eco Water Bottle","price":25,"stock":50,"inStock":true}}`),
		},
	})

	product, err := storeclient.New("http://shop.test").FetchProduct(context.Background(), 7)
	require.NoError(t, err)

	assert.Equal(t, "Eco Water Bottle", product.Name)
	assert.Equal(t, 25.0, product.Price)
	assert.Equal(t, 50, product.Stock)
	assert.True(t, product.InStock)
}

func TestUpdateOrderStatusRequiresToken(t *testing.T) {
	c := storeclient.New("http://shop.test")

	err := c.UpdateOrderStatus(context.Background(), 1, models.StatusDelivered)
	assert.ErrorIs(t, err, storeclient.ErrNoToken)

	err = c.DeleteOrder(context.Background(), 1)
	assert.ErrorIs(t, err, storeclient.ErrNoToken)
}

// methodTransport answers by HTTP method and records what it saw. The shared
// MockTransport matches on URL only, which cannot express the PUT/PATCH
// fallback, so this test carries its own round tripper.
type methodTransport struct {
	responses map[string]int
	calls     []string
	auth      []string
}

func (mt *methodTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	mt.calls = append(mt.calls, req.Method)
	mt.auth = append(mt.auth, req.Header.Get("Authorization"))

	code, ok := mt.responses[req.Method]
	if !ok {
		code = http.StatusNotFound
	}
	return &http.Response{
		StatusCode: code,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(strings.NewReader(`{}`)),
		Request:    req,
	}, nil
}

func TestUpdateOrderStatusFallsBackToPatch(t *testing.T) {
	mt := &methodTransport{responses: map[string]int{
		http.MethodPut:   http.StatusMethodNotAllowed,
		http.MethodPatch: http.StatusOK,
	}}
	clienthttp.DefaultClient.Transport = mt
	t.Cleanup(clienthttp.ResetTransport)

	c := storeclient.New("http://shop.test").WithToken("tok-123")
	err := c.UpdateOrderStatus(context.Background(), 42, models.StatusDelivered)
	require.NoError(t, err)

	require.Equal(t, []string{http.MethodPut, http.MethodPatch}, mt.calls)
	for _, got := range mt.auth {
		assert.Equal(t, "Bearer tok-123", got)
	}
}

func TestUpdateOrderStatusPutSucceedsFirstTry(t *testing.T) {
	mt := &methodTransport{responses: map[string]int{http.MethodPut: http.StatusOK}}
	clienthttp.DefaultClient.Transport = mt
	t.Cleanup(clienthttp.ResetTransport)

	c := storeclient.New("http://shop.test").WithToken("tok-123")
	err := c.UpdateOrderStatus(context.Background(), 42, models.StatusPending)
	require.NoError(t, err)

	assert.Equal(t, []string{http.MethodPut}, mt.calls)
}
