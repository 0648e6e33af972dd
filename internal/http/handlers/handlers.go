package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/Abhay69095/Buildmart/internal/config"
	"github.com/Abhay69095/Buildmart/internal/service"
)

// Handlers агрегирует зависимости HTTP-слоя.
type Handlers struct {
	Service *service.Service
	Auth    config.AuthConfig
	Env     string
}

func New(svc *service.Service, auth config.AuthConfig, env string) *Handlers {
	return &Handlers{
		Service: svc,
		Auth:    auth,
		Env:     env,
	}
}

// writeJSON — единый ответ JSON с нужным Content-Type.
// Ошибки выводим через apierrors.WriteError.
func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

// decodeStrict — строгий JSON-декодер: запрещаем неизвестные поля.
func decodeStrict(r *http.Request, value any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(value)
}
