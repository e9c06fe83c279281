// Package mailer e-posta sağlayıcısının HTTP API'sine tek alıcılı, HTML
// şablonlu mail gönderen ince istemciyi içerir. Gönderim best-effort'tur;
// çağıran taraf hatayı loglayıp yoluna devam eder.
package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"time"
)

// Mailer e-posta gönderme arayüzü. Testlerde fake ile değiştirilir.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// Message tek bir alıcıya gidecek mail.
type Message struct {
	To       string `json:"to"`
	ToName   string `json:"to_name,omitempty"`
	Subject  string `json:"subject"`
	HTMLBody string `json:"html"`
}

// Client sağlayıcı API istemcisi.
type Client struct {
	apiURL     string
	apiKey     string
	from       string
	fromName   string
	httpClient *http.Client
}

// NewClient yeni bir mail istemcisi oluşturur.
func NewClient(apiURL, apiKey, from, fromName string) *Client {
	return &Client{
		apiURL:     apiURL,
		apiKey:     apiKey,
		from:       from,
		fromName:   fromName,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

type sendRequest struct {
	From     string `json:"from"`
	FromName string `json:"from_name,omitempty"`
	Message
}

// Send maili sağlayıcıya iletir. 2xx dışındaki her cevap hatadır.
func (c *Client) Send(ctx context.Context, msg Message) error {
	body, err := json.Marshal(sendRequest{From: c.from, FromName: c.fromName, Message: msg})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	res, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(res.Body, 1024))
		return fmt.Errorf("mail sağlayıcısı %d döndü: %s", res.StatusCode, string(raw))
	}
	return nil
}

// contributionMailTmpl katkı bildirimi için basit HTML şablonu.
var contributionMailTmpl = template.Must(template.New("contribution").Parse(`<html>
<body style="font-family: sans-serif;">
  <h2>Yeni katkı geldi 🎁</h2>
  <p><strong>{{.ContributorName}}</strong>, "{{.ItemName}}" hediyesine
     <strong>{{printf "%.2f" .Amount}} {{.Currency}}</strong> katkıda bulundu.</p>
  {{if .Message}}<blockquote>{{.Message}}</blockquote>{{end}}
  <p><a href="{{.RegistryURL}}">Listeni görüntüle</a></p>
</body>
</html>`))

// ContributionMailData katkı maili şablon verisi.
type ContributionMailData struct {
	ContributorName string
	ItemName        string
	Amount          float64
	Currency        string
	Message         string
	RegistryURL     string
}

// RenderContributionMail katkı bildirimi HTML gövdesini üretir.
func RenderContributionMail(data ContributionMailData) (string, error) {
	var buf bytes.Buffer
	if err := contributionMailTmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
