package services

import (
	"errors"

	"backend/config"
	"backend/models"
	"backend/utils"

	"gorm.io/gorm"
)

func RegisterUser(email, password, fullName, timezone string) error {
	hashed, err := utils.HashPassword(password)
	if err != nil {
		return err
	}

	user := models.User{
		Email:    email,
		Password: hashed,
		FullName: fullName,
		Timezone: timezone,
	}
	return config.DB.Create(&user).Error
}

func AuthenticateUser(email, password string) (string, error) {
	var user models.User
	if err := config.DB.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", errors.New("invalid email or password")
		}
		return "", err
	}

	if !utils.CheckPasswordHash(password, user.Password) {
		return "", errors.New("invalid email or password")
	}

	return utils.GenerateJWT(user.ID, user.Email)
}
