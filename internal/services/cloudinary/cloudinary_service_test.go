package cloudinary

import (
	"testing"

	"github.com/benchlot/benchlot-api/internal/config"
)

func newTestService(secret string) *CloudinaryService {
	return &CloudinaryService{
		cfg: &config.Config{
			CloudinaryConfig: config.CloudinaryConfig{APISecret: secret},
		},
	}
}

func TestGenerateSignatureDeterministic(t *testing.T) {
	s := newTestService("test_secret")

	params := map[string]string{
		"timestamp": "1700000000",
		"folder":    "benchlot/tools",
	}

	sig1 := s.GenerateSignature(params)
	sig2 := s.GenerateSignature(params)

	if sig1 != sig2 {
		t.Error("повторная подпись одинаковых параметров отличается")
	}

	// SHA-1 в шестнадцатеричном виде
	if len(sig1) != 40 {
		t.Errorf("длина подписи %d, ожидалось 40", len(sig1))
	}
}

func TestGenerateSignatureOrderIndependent(t *testing.T) {
	s := newTestService("test_secret")

	// Параметры сортируются по ключу, поэтому порядок добавления не важен
	sig1 := s.GenerateSignature(map[string]string{
		"folder":    "benchlot/tools",
		"timestamp": "1700000000",
	})
	sig2 := s.GenerateSignature(map[string]string{
		"timestamp": "1700000000",
		"folder":    "benchlot/tools",
	})

	if sig1 != sig2 {
		t.Error("подпись зависит от порядка параметров")
	}
}

func TestGenerateSignatureSecretChangesResult(t *testing.T) {
	params := map[string]string{"timestamp": "1700000000"}

	sig1 := newTestService("secret_one").GenerateSignature(params)
	sig2 := newTestService("secret_two").GenerateSignature(params)

	if sig1 == sig2 {
		t.Error("подпись не зависит от секрета")
	}
}
