package jwt

import (
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims incluye los claims estándar JWT más los campos propios de la aplicación.
// BranchID fija la sucursal sobre la que opera el usuario; Role alimenta el middleware RBAC.
type Claims struct {
	jwt.RegisteredClaims
	UserID   int64  `json:"user_id"`
	BranchID int64  `json:"branch_id"`
	Role     string `json:"role"` // "admin" | "bodeguero" | "cajero"
}

// Generate genera un token JWT firmado (HS256) que incluye userID, branchID y role.
func Generate(secret string, userID, branchID int64, role, issuer string, expMinutes int) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("jwt: secret vacío")
	}
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(expMinutes) * time.Minute)),
		},
		UserID:   userID,
		BranchID: branchID,
		Role:     role,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// Parse valida el token y devuelve userID, branchID y role.
// Retorna error si el token es inválido, expirado, tiene firma incorrecta o no trae sucursal.
func Parse(secret, tokenString string) (userID, branchID int64, role string, err error) {
	if secret == "" {
		return 0, 0, "", fmt.Errorf("jwt: secret vacío")
	}
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("método de firma inesperado: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return 0, 0, "", err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return 0, 0, "", fmt.Errorf("claims inválidos")
	}
	if claims.UserID <= 0 || claims.BranchID <= 0 {
		return 0, 0, "", fmt.Errorf("claims sin usuario o sucursal")
	}
	return claims.UserID, claims.BranchID, claims.Role, nil
}
