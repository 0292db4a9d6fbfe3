package auth_test

import (
	"errors"
	"testing"
	"time"

	"github.com/scime/ecommerce/internal/auth"
	"golang.org/x/crypto/bcrypt"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestAuthService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Auth Service Suite")
}

type MockRepository struct {
	hashes     map[string]string
	idsByEmail map[string]int64
	users      map[int64]*auth.User
	shouldFail bool
	failError  error
}

func NewMockRepository() *MockRepository {
	return &MockRepository{
		hashes:     make(map[string]string),
		idsByEmail: make(map[string]int64),
		users:      make(map[int64]*auth.User),
	}
}

func (m *MockRepository) SetShouldFail(shouldFail bool, err error) {
	m.shouldFail = shouldFail
	m.failError = err
}

func (m *MockRepository) AddUser(u *auth.User, password string) {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	m.hashes[u.Email] = string(hash)
	m.idsByEmail[u.Email] = u.ID
	m.users[u.ID] = u
}

func (m *MockRepository) GetCredentialsByEmail(email string) (string, int64, error) {
	if m.shouldFail {
		return "", 0, m.failError
	}
	hash, ok := m.hashes[email]
	if !ok {
		return "", 0, errors.New("no rows")
	}
	return hash, m.idsByEmail[email], nil
}

func (m *MockRepository) GetUserWithPermissions(userID int64) (*auth.User, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	u, ok := m.users[userID]
	if !ok {
		return nil, errors.New("no rows")
	}
	return u, nil
}

var _ = Describe("Auth Service", func() {
	var (
		repo    *MockRepository
		service *auth.Service
	)

	BeforeEach(func() {
		repo = NewMockRepository()
		repo.AddUser(&auth.User{
			ID:          7,
			Email:       "buyer@example.com",
			Username:    "buyer",
			Permissions: []string{"view_products"},
		}, "supersecret")

		tokenGen := auth.NewJWTTokenGenerator("access-secret", "refresh-secret", 15*time.Minute, 7*24*time.Hour)
		service = auth.NewService(repo, tokenGen, bcrypt.MinCost)
	})

	Describe("Authenticate", func() {
		It("should return tokens for valid credentials", func() {
			tokens, err := service.Authenticate(auth.LoginDTO{
				Email:    "buyer@example.com",
				Password: "supersecret",
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(tokens.AccessToken).NotTo(BeEmpty())
			Expect(tokens.RefreshToken).NotTo(BeEmpty())
			Expect(tokens.AccessToken).NotTo(Equal(tokens.RefreshToken))
		})

		It("should reject a wrong password", func() {
			_, err := service.Authenticate(auth.LoginDTO{
				Email:    "buyer@example.com",
				Password: "wrong-password",
			})
			Expect(err).To(MatchError(auth.ErrInvalidCredentials))
		})

		It("should reject an unknown email", func() {
			_, err := service.Authenticate(auth.LoginDTO{
				Email:    "nobody@example.com",
				Password: "supersecret",
			})
			Expect(err).To(MatchError(auth.ErrInvalidCredentials))
		})

		It("should reject missing fields", func() {
			_, err := service.Authenticate(auth.LoginDTO{})
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("ValidateAccessToken", func() {
		It("should return the claims embedded at login", func() {
			tokens, err := service.Authenticate(auth.LoginDTO{
				Email:    "buyer@example.com",
				Password: "supersecret",
			})
			Expect(err).NotTo(HaveOccurred())

			claims, err := service.ValidateAccessToken(tokens.AccessToken)
			Expect(err).NotTo(HaveOccurred())
			Expect(claims.UserID).To(Equal(int64(7)))
			Expect(claims.Email).To(Equal("buyer@example.com"))
		})

		It("should reject garbage", func() {
			_, err := service.ValidateAccessToken("not-a-token")
			Expect(err).To(MatchError(auth.ErrInvalidToken))
		})

		It("should reject a token signed with another secret", func() {
			otherGen := auth.NewJWTTokenGenerator("other-secret", "other-refresh", 15*time.Minute, 7*24*time.Hour)
			token, err := otherGen.GenerateAccessToken(7, "buyer@example.com")
			Expect(err).NotTo(HaveOccurred())

			_, err = service.ValidateAccessToken(token)
			Expect(err).To(MatchError(auth.ErrInvalidToken))
		})

		It("should reject an expired token", func() {
			shortGen := auth.NewJWTTokenGenerator("access-secret", "refresh-secret", -time.Minute, 7*24*time.Hour)
			token, err := shortGen.GenerateAccessToken(7, "buyer@example.com")
			Expect(err).NotTo(HaveOccurred())

			_, err = service.ValidateAccessToken(token)
			Expect(err).To(MatchError(auth.ErrTokenExpired))
		})
	})

	Describe("RefreshTokens", func() {
		It("should issue a fresh token pair", func() {
			tokens, err := service.Authenticate(auth.LoginDTO{
				Email:    "buyer@example.com",
				Password: "supersecret",
			})
			Expect(err).NotTo(HaveOccurred())

			refreshed, err := service.RefreshTokens(tokens.RefreshToken)
			Expect(err).NotTo(HaveOccurred())
			Expect(refreshed.AccessToken).NotTo(BeEmpty())

			claims, err := service.ValidateAccessToken(refreshed.AccessToken)
			Expect(err).NotTo(HaveOccurred())
			Expect(claims.UserID).To(Equal(int64(7)))
		})

		It("should reject a user who no longer resolves", func() {
			tokens, err := service.Authenticate(auth.LoginDTO{
				Email:    "buyer@example.com",
				Password: "supersecret",
			})
			Expect(err).NotTo(HaveOccurred())

			delete(repo.users, 7)

			_, err = service.RefreshTokens(tokens.RefreshToken)
			Expect(err).To(MatchError(auth.ErrUserInactive))
		})

		It("should reject an invalid refresh token", func() {
			_, err := service.RefreshTokens("not-a-token")
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("User", func() {
		It("should answer permission membership", func() {
			u, err := service.GetUserWithPermissions(7)
			Expect(err).NotTo(HaveOccurred())
			Expect(u.HasPermission("view_products")).To(BeTrue())
			Expect(u.HasPermission("delete_product")).To(BeFalse())
		})
	})
})
