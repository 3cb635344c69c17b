package rest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"consegne/model"
	"consegne/service/dto"
)

// ErrUnauthorized marks a rejected credential. It is terminal for the
// session: pollers stop and the client must re-authenticate.
var ErrUnauthorized = errors.New("credential rejected by server")

// Client talks to the coordination server's REST API on behalf of one session.
type Client struct {
	base       string
	token      string
	httpClient *http.Client
}

func NewClient(base string) *Client {
	return &Client{
		base:       strings.TrimRight(base, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) SetToken(token string) {
	c.token = token
}

func (c *Client) Login(mail, password string) (model.User, error) {
	var out dto.LoginResponse
	err := c.do(http.MethodPost, "/api/login", dto.LoginRequest{Mail: mail, Password: password}, &out)
	if err != nil {
		return model.User{}, err
	}
	c.token = out.Token
	return out.User, nil
}

func (c *Client) Shipments() ([]model.Shipment, error) {
	var out []model.Shipment
	err := c.do(http.MethodGet, "/api/shipments", nil, &out)
	return out, err
}

func (c *Client) Messages() ([]model.Message, error) {
	var out []model.Message
	err := c.do(http.MethodGet, "/api/messages", nil, &out)
	return out, err
}

func (c *Client) PostMessage(text, replyTo, shipmentId string) (model.Message, error) {
	var out model.Message
	err := c.do(http.MethodPost, "/api/messages", dto.MessagePost{Text: text, ReplyTo: replyTo, ShipmentId: shipmentId}, &out)
	return out, err
}

func (c *Client) do(method, path string, body, to interface{}) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, c.base+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return ErrUnauthorized
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("unexpected status: %s", resp.Status)
	}

	if to == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(to)
}
