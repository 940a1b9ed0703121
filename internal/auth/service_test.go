package auth_test

import (
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	authpkg "github.com/frahmantamala/travel-booking/internal/auth"
)

func TestAuthService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Auth Service Suite")
}

type mockUserRepository struct {
	usersByEmail map[string]*authpkg.User
	usersByID    map[int64]*authpkg.User
	hashes       map[string]string
}

func newMockUserRepository() *mockUserRepository {
	return &mockUserRepository{
		usersByEmail: make(map[string]*authpkg.User),
		usersByID:    make(map[int64]*authpkg.User),
		hashes:       make(map[string]string),
	}
}

func (m *mockUserRepository) addUser(user *authpkg.User, password string) {
	hash, err := authpkg.HashPassword(password, 4)
	Expect(err).ToNot(HaveOccurred())
	m.usersByEmail[user.Email] = user
	m.usersByID[user.ID] = user
	m.hashes[user.Email] = hash
}

func (m *mockUserRepository) GetByEmail(email string) (*authpkg.User, string, error) {
	user, exists := m.usersByEmail[email]
	if !exists {
		return nil, "", authpkg.ErrInvalidCredentials
	}
	return user, m.hashes[email], nil
}

func (m *mockUserRepository) GetByID(userID int64) (*authpkg.User, error) {
	user, exists := m.usersByID[userID]
	if !exists {
		return nil, authpkg.ErrInvalidToken
	}
	return user, nil
}

var _ = Describe("AuthService", func() {
	var (
		repo    *mockUserRepository
		service *authpkg.Service
	)

	BeforeEach(func() {
		repo = newMockUserRepository()
		repo.addUser(&authpkg.User{
			ID:        1,
			Email:     "jane@example.com",
			FirstName: "Jane",
			LastName:  "Doe",
			IsActive:  true,
		}, "correct-horse")
		repo.addUser(&authpkg.User{
			ID:       2,
			Email:    "dormant@example.com",
			IsActive: false,
		}, "sleeping")

		tokenGen := authpkg.NewJWTTokenGenerator(
			"access-secret-for-tests-0123456789",
			"refresh-secret-for-tests-0123456789",
			15*time.Minute,
			7*24*time.Hour,
		)
		service = authpkg.NewService(repo, tokenGen)
	})

	Describe("Authenticate", func() {
		It("returns a token pair for valid credentials", func() {
			tokens, err := service.Authenticate(authpkg.LoginDTO{
				Email:    "jane@example.com",
				Password: "correct-horse",
			})

			Expect(err).ToNot(HaveOccurred())
			Expect(tokens.AccessToken).ToNot(BeEmpty())
			Expect(tokens.RefreshToken).ToNot(BeEmpty())
			Expect(tokens.AccessToken).ToNot(Equal(tokens.RefreshToken))
		})

		It("embeds the user identity in the access token", func() {
			tokens, err := service.Authenticate(authpkg.LoginDTO{
				Email:    "jane@example.com",
				Password: "correct-horse",
			})
			Expect(err).ToNot(HaveOccurred())

			claims, err := service.ValidateAccessToken(tokens.AccessToken)

			Expect(err).ToNot(HaveOccurred())
			Expect(claims.UserID).To(Equal("1"))
			Expect(claims.Email).To(Equal("jane@example.com"))
		})

		It("rejects a wrong password", func() {
			_, err := service.Authenticate(authpkg.LoginDTO{
				Email:    "jane@example.com",
				Password: "wrong",
			})

			Expect(err).To(Equal(authpkg.ErrInvalidCredentials))
		})

		It("rejects an unknown email", func() {
			_, err := service.Authenticate(authpkg.LoginDTO{
				Email:    "ghost@example.com",
				Password: "whatever",
			})

			Expect(err).To(Equal(authpkg.ErrInvalidCredentials))
		})

		It("rejects an inactive user even with the right password", func() {
			_, err := service.Authenticate(authpkg.LoginDTO{
				Email:    "dormant@example.com",
				Password: "sleeping",
			})

			Expect(err).To(Equal(authpkg.ErrUserInactive))
		})

		It("rejects an empty payload before touching the repository", func() {
			_, err := service.Authenticate(authpkg.LoginDTO{})

			var validationErr authpkg.ValidationError
			Expect(err).To(BeAssignableToTypeOf(validationErr))
		})
	})

	Describe("RefreshTokens", func() {
		It("exchanges a refresh token for a new pair", func() {
			tokens, err := service.Authenticate(authpkg.LoginDTO{
				Email:    "jane@example.com",
				Password: "correct-horse",
			})
			Expect(err).ToNot(HaveOccurred())

			renewed, err := service.RefreshTokens(tokens.RefreshToken)

			Expect(err).ToNot(HaveOccurred())
			Expect(renewed.AccessToken).ToNot(BeEmpty())
			Expect(renewed.RefreshToken).ToNot(BeEmpty())
		})

		It("rejects an access token used as refresh token", func() {
			tokens, err := service.Authenticate(authpkg.LoginDTO{
				Email:    "jane@example.com",
				Password: "correct-horse",
			})
			Expect(err).ToNot(HaveOccurred())

			_, err = service.RefreshTokens(tokens.AccessToken)

			Expect(err).To(Equal(authpkg.ErrInvalidToken))
		})

		It("rejects garbage tokens", func() {
			_, err := service.RefreshTokens("not-a-jwt")

			Expect(err).To(Equal(authpkg.ErrInvalidToken))
		})

		It("stops refreshing once the user is deactivated", func() {
			tokens, err := service.Authenticate(authpkg.LoginDTO{
				Email:    "jane@example.com",
				Password: "correct-horse",
			})
			Expect(err).ToNot(HaveOccurred())

			repo.usersByID[1].IsActive = false

			_, err = service.RefreshTokens(tokens.RefreshToken)

			Expect(err).To(Equal(authpkg.ErrUserInactive))
		})
	})

	Describe("ValidateAccessToken", func() {
		It("rejects an expired token", func() {
			tokenGen := &authpkg.JWTTokenGenerator{
				AccessTokenSecret:  []byte("access-secret-for-tests-0123456789"),
				RefreshTokenSecret: []byte("refresh-secret-for-tests-0123456789"),
				AccessTokenTTL:     -1 * time.Minute,
				RefreshTokenTTL:    7 * 24 * time.Hour,
			}
			expired := authpkg.NewService(repo, tokenGen)

			tokens, err := expired.Authenticate(authpkg.LoginDTO{
				Email:    "jane@example.com",
				Password: "correct-horse",
			})
			Expect(err).ToNot(HaveOccurred())

			_, err = expired.ValidateAccessToken(tokens.AccessToken)

			Expect(err).To(Equal(authpkg.ErrTokenExpired))
		})

		It("rejects a token signed with a different secret", func() {
			otherGen := authpkg.NewJWTTokenGenerator(
				"a-completely-different-secret-value",
				"refresh-secret-for-tests-0123456789",
				15*time.Minute,
				7*24*time.Hour,
			)
			other := authpkg.NewService(repo, otherGen)

			tokens, err := other.Authenticate(authpkg.LoginDTO{
				Email:    "jane@example.com",
				Password: "correct-horse",
			})
			Expect(err).ToNot(HaveOccurred())

			_, err = service.ValidateAccessToken(tokens.AccessToken)

			Expect(err).To(Equal(authpkg.ErrInvalidToken))
		})
	})
})
