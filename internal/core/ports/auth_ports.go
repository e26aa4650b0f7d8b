package ports

import (
	"github.com/vncsmyrnk/fanvote/internal/core/domain"
)

type AuthService interface {
	IssueAdminToken(subject string) (string, error)
	VerifyAdminToken(token string) (*domain.Admin, error)
}
