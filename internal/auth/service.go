package auth

import (
	"net/http"
	"strings"

	"github.com/hitoshi/trackdeck/internal/model"
)

// Service はリクエスト認証と所有権判定を提供する。
// 変更系リクエストは Authenticate → 対象行の存在確認 → AuthorizeOwnership の
// 順で処理され、各段階で短絡する。認証失敗時に対象行の有無が漏れることはない。
type Service struct {
	verifier TokenVerifier
}

// NewService はServiceを生成する。
func NewService(verifier TokenVerifier) *Service {
	return &Service{verifier: verifier}
}

// Authenticate はリクエストのAuthorizationヘッダーからベアラー資格情報を取り出し、
// 検証してClaimを返す。
// ヘッダーの欠落・形式不正はMISSING_CREDENTIAL、検証失敗はINVALID_CREDENTIALになる。
func (s *Service) Authenticate(r *http.Request) (*model.Claim, error) {
	token, err := extractBearerToken(r.Header.Get("Authorization"))
	if err != nil {
		return nil, model.NewMissingCredentialError()
	}

	subject, err := s.verifier.Verify(token)
	if err != nil {
		return nil, model.NewInvalidCredentialError()
	}

	return &model.Claim{Subject: subject}, nil
}

// AuthorizeOwnership はclaimのsubjectとリソースのauthorの完全一致を判定する。
// ネットワークにもストアにもアクセスしない純粋な比較。
func (s *Service) AuthorizeOwnership(claim *model.Claim, author string) bool {
	if claim == nil {
		return false
	}
	return claim.Subject == author
}

// extractBearerToken はAuthorizationヘッダーからベアラートークンを取り出す。
func extractBearerToken(authHeader string) (string, error) {
	if authHeader == "" {
		return "", ErrInvalidToken
	}
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return "", ErrInvalidToken
	}
	token := strings.TrimPrefix(authHeader, "Bearer ")
	if token == "" {
		return "", ErrInvalidToken
	}
	return token, nil
}
