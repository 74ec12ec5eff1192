package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/daniil11ru/availability/cli/availability/types"
)

// Remote удалённый источник снимка доступного транспорта
type Remote interface {
	GetVehicles(ctx context.Context) ([]types.Vehicle, error)
}

type DefaultRemote struct {
	url        string
	httpClient *http.Client
}

func NewDefaultRemote(url string, timeout time.Duration) *DefaultRemote {
	return &DefaultRemote{
		url:        url,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (r *DefaultRemote) Url() string {
	return r.url
}

func (r *DefaultRemote) GetVehicles(ctx context.Context) ([]types.Vehicle, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("сервер ответил статусом %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения ответа: %w", err)
	}

	var vehicles []types.Vehicle
	if err := json.Unmarshal(body, &vehicles); err != nil {
		return nil, fmt.Errorf("некорректный ответ сервера: %w", err)
	}
	if vehicles == nil {
		vehicles = []types.Vehicle{}
	}

	return vehicles, nil
}
