package services

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log"

	"github.com/localtable/recipedb/internal/models"
	"github.com/localtable/recipedb/internal/types"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SignupInput is the account-creation payload. Password is hashed before
// storage and never persisted raw.
type SignupInput struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

// UserUpdate is the partial profile-update payload; nil means "not supplied".
type UserUpdate struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Email     *string `json:"email"`
}

// HashPassword hashes a plaintext password with bcrypt at the given cost.
func HashPassword(password string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether the plaintext matches the user's stored hash.
func CheckPassword(user *models.User, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) == nil
}

// CreateToken returns an opaque session token from a cryptographically
// secure source.
func CreateToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// Signup creates a user with a hashed password and a fresh token. Duplicate
// username or email surfaces as a 422-mappable conflict, never a generic
// failure.
func Signup(db *gorm.DB, input *SignupInput, bcryptCost int) (*models.User, error) {
	hash, err := HashPassword(input.Password, bcryptCost)
	if err != nil {
		log.Printf("password hash failed: %v", err)
		return nil, &types.QueryError{Status: 500, Message: "Something went wrong. Please try again."}
	}
	token, err := CreateToken()
	if err != nil {
		log.Printf("token generation failed: %v", err)
		return nil, &types.QueryError{Status: 500, Message: "Something went wrong. Please try again."}
	}

	user := models.User{
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: hash,
		Token:        &token,
	}
	if err := db.Create(&user).Error; err != nil {
		switch duplicateKeyColumn(err) {
		case "username":
			return nil, &types.QueryError{
				Status:  422,
				Message: fmt.Sprintf("Username %s is taken. Please select another one.", input.Username),
			}
		case "email":
			return nil, &types.QueryError{
				Status:  422,
				Message: fmt.Sprintf("Email %s already has an account. Please log in.", input.Email),
			}
		case "unique":
			return nil, &types.QueryError{Status: 422, Message: "Account already exists."}
		}
		log.Printf("user insert failed: %v", err)
		return nil, &types.QueryError{
			Status:  500,
			Message: "Something went wrong. Please try again.",
			Details: redactError(err),
		}
	}
	return &user, nil
}

// Signin verifies credentials and rotates the user's token. Unknown
// username and wrong password are indistinguishable to the caller.
func Signin(db *gorm.DB, username, password string) (*models.User, error) {
	var user models.User
	err := fetchQueryFirst("Error fetching user.", func() *gorm.DB {
		return db.Where("username = ?", username).First(&user)
	})
	if errors.Is(err, types.ErrNoRows) {
		return nil, &types.QueryError{Status: 401, Message: "Username or password is invalid."}
	}
	if err != nil {
		return nil, err
	}

	if !CheckPassword(&user, password) {
		return nil, &types.QueryError{Status: 401, Message: "Username or password is invalid."}
	}

	token, err := CreateToken()
	if err != nil {
		log.Printf("token generation failed: %v", err)
		return nil, &types.QueryError{Status: 500, Message: "Something went wrong. Please try again."}
	}
	if err := fetchQuery("Error updating user token.", func() *gorm.DB {
		return db.Model(&user).Update("token", token)
	}); err != nil {
		return nil, err
	}
	user.Token = &token
	return &user, nil
}

// Signout clears the user's token; the session credential stops working
// immediately.
func Signout(db *gorm.DB, userID uint64) error {
	return fetchQuery("Error clearing user token.", func() *gorm.DB {
		return db.Model(&models.User{}).Where("id = ?", userID).Update("token", nil)
	})
}

// UpdateUser applies a partial profile update. Duplicate email surfaces as
// a 422-mappable conflict.
func UpdateUser(db *gorm.DB, userID uint64, update *UserUpdate) (*models.User, error) {
	updates := make(map[string]interface{})
	if update.FirstName != nil {
		updates["first_name"] = *update.FirstName
	}
	if update.LastName != nil {
		updates["last_name"] = *update.LastName
	}
	if update.Email != nil {
		updates["email"] = *update.Email
	}
	if len(updates) == 0 {
		return nil, &types.QueryError{
			Status:  400,
			Message: "You must include data to update in the request body.",
		}
	}

	result := db.Model(&models.User{}).Where("id = ?", userID).Updates(updates)
	if result.Error != nil {
		if duplicateKeyColumn(result.Error) != "" {
			email := ""
			if update.Email != nil {
				email = *update.Email
			}
			return nil, &types.QueryError{
				Status:  422,
				Message: fmt.Sprintf("Email %s already has an account.", email),
			}
		}
		log.Printf("user update failed: %v", result.Error)
		return nil, &types.QueryError{
			Status:  400,
			Message: "Error updating users table.",
			Details: redactError(result.Error),
		}
	}
	if result.RowsAffected == 0 {
		return nil, &types.QueryError{Status: 404, Message: "No user found."}
	}

	var user models.User
	if err := fetchQueryFirst("Error fetching user.", func() *gorm.DB {
		return db.First(&user, userID)
	}); err != nil {
		return nil, err
	}
	return &user, nil
}

// DeleteUser removes the user row; the caller decides how to treat a zero
// count.
func DeleteUser(db *gorm.DB, userID uint64) (int64, error) {
	result := db.Where("id = ?", userID).Delete(&models.User{})
	if result.Error != nil {
		log.Printf("user delete failed: %v", result.Error)
		return 0, &types.QueryError{
			Status:  500,
			Message: "Error deleting user.",
			Details: redactError(result.Error),
		}
	}
	return result.RowsAffected, nil
}

// GetUserByToken maps a bearer token to its user, or a typed not-found.
func GetUserByToken(db *gorm.DB, token string) (*models.User, error) {
	if token == "" {
		return nil, types.ErrNoRows
	}
	var user models.User
	if err := fetchQueryFirst("Error fetching user.", func() *gorm.DB {
		return db.Where("token = ?", token).First(&user)
	}); err != nil {
		return nil, err
	}
	return &user, nil
}
