package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/stockit-api/internal/application/dto"
	"github.com/jhoicas/stockit-api/internal/application/notification"
	"github.com/jhoicas/stockit-api/internal/domain"
	"github.com/jhoicas/stockit-api/internal/domain/entity"
	"github.com/jhoicas/stockit-api/internal/domain/repository"
	"github.com/jhoicas/stockit-api/pkg/jwt"
)

const (
	minPasswordLen = 6
	resetTokenTTL  = time.Hour
	notifyTimeout  = time.Minute
	// ForgotPasswordMessage misma respuesta exista o no el correo.
	ForgotPasswordMessage = "Si el correo existe, recibirás instrucciones de recuperación"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// Notifier envía el correo de recuperación.
type Notifier interface {
	Send(ctx context.Context, req notification.Request) (*notification.Result, error)
}

// Options parámetros de recuperación de contraseña.
type Options struct {
	FrontendURL string
	// ExposeResetToken devuelve el token en la respuesta (solo development).
	ExposeResetToken bool
}

// AuthUseCase casos de uso de autenticación: registro, login y recuperación de contraseña.
type AuthUseCase struct {
	userRepo repository.UserRepository
	jwtCfg   JWTConfig
	notifier Notifier
	opts     Options
	log      zerolog.Logger
	now      func() time.Time
	wg       sync.WaitGroup
}

// NewAuthUseCase construye el caso de uso de auth. notifier puede ser nil.
func NewAuthUseCase(userRepo repository.UserRepository, jwtCfg JWTConfig, notifier Notifier, opts Options, log zerolog.Logger) *AuthUseCase {
	return &AuthUseCase{userRepo: userRepo, jwtCfg: jwtCfg, notifier: notifier, opts: opts, log: log, now: time.Now}
}

// WithClock reemplaza el reloj usado para vencimientos.
func (uc *AuthUseCase) WithClock(now func() time.Time) *AuthUseCase {
	uc.now = now
	return uc
}

// Wait espera los correos de recuperación en curso (apagado ordenado).
func (uc *AuthUseCase) Wait() {
	uc.wg.Wait()
}

// RegisterUser crea un usuario: hashea password con bcrypt y persiste.
// Devuelve ErrEmailAlreadyExists si el correo ya está registrado y ErrConflict
// si el nombre visible ya pertenece a otro usuario.
func (uc *AuthUseCase) RegisterUser(ctx context.Context, in dto.RegisterRequest) (*dto.UserResponse, error) {
	name := strings.TrimSpace(in.Name)
	email := normalizeEmail(in.Email)
	if name == "" || email == "" || in.Password == "" {
		return nil, domain.Invalid("todos los campos son requeridos")
	}
	if len(in.Password) < minPasswordLen {
		return nil, domain.Invalid("la contraseña debe tener al menos 6 caracteres")
	}
	existing, err := uc.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}
	sameName, err := uc.userRepo.FindByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if sameName != nil {
		return nil, fmt.Errorf("%w: el nombre de usuario ya está registrado", domain.ErrConflict)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	user := &entity.User{
		ID:           uuid.New().String(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return ToUserResponse(user), nil
}

// Login verifica correo/password, genera JWT y retorna token + usuario.
// Correo inexistente y contraseña incorrecta responden igual.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	email := normalizeEmail(in.Email)
	if email == "" || in.Password == "" {
		return nil, domain.Invalid("correo y contraseña son requeridos")
	}
	user, err := uc.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, user.Name, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token: token,
		User:  *ToUserResponse(user),
	}, nil
}

// ForgotPassword genera un token de recuperación de una hora si el usuario existe.
// Solo se guarda el SHA-256 del token. El correo se envía sin bloquear el resultado.
func (uc *AuthUseCase) ForgotPassword(ctx context.Context, in dto.ForgotPasswordRequest) (*dto.ForgotPasswordResponse, error) {
	email := normalizeEmail(in.Email)
	if email == "" {
		return nil, domain.Invalid("el correo es requerido")
	}
	resp := &dto.ForgotPasswordResponse{Message: ForgotPasswordMessage}

	user, err := uc.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return resp, nil
	}

	token, err := newResetToken()
	if err != nil {
		return nil, err
	}
	expires := uc.now().Add(resetTokenTTL)
	if err := uc.userRepo.SetResetToken(ctx, user.ID, HashToken(token), expires); err != nil {
		return nil, err
	}

	link := strings.TrimRight(uc.opts.FrontendURL, "/") + "/reset-password/" + token
	uc.sendRecoveryEmailAsync(user, link)

	if uc.opts.ExposeResetToken {
		resp.ResetToken = token
	}
	return resp, nil
}

// sendRecoveryEmailAsync el tiempo de respuesta no depende de si el correo existe.
func (uc *AuthUseCase) sendRecoveryEmailAsync(user *entity.User, link string) {
	if uc.notifier == nil {
		uc.log.Info().Str("user", user.Name).Msg("recuperación generada sin notificador configurado")
		return
	}
	uc.wg.Add(1)
	go func() {
		defer uc.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()
		uc.sendRecoveryEmail(ctx, user, link)
	}()
}

func (uc *AuthUseCase) sendRecoveryEmail(ctx context.Context, user *entity.User, link string) {
	body := fmt.Sprintf(`🔑 **RECUPERACIÓN DE CONTRASEÑA**

Hola %s, recibimos una solicitud para restablecer tu contraseña.

🔗 **Enlace:** %s

El enlace es válido por 1 hora. Si no solicitaste el cambio, ignora este correo.`, user.Name, link)

	_, err := uc.notifier.Send(ctx, notification.Request{
		Principal: user.Email,
		Subject:   "Recuperación de contraseña - StockIt",
		Body:      body,
	})
	if err != nil {
		uc.log.Warn().Err(err).Str("user", user.Name).Msg("no se pudo enviar el correo de recuperación")
	}
}

// ResetPassword reemplaza la contraseña si el token existe y no ha expirado. El token es de un solo uso.
func (uc *AuthUseCase) ResetPassword(ctx context.Context, in dto.ResetPasswordRequest) error {
	token := strings.TrimSpace(in.Token)
	if token == "" || in.Password == "" {
		return domain.Invalid("token y nueva contraseña son requeridos")
	}
	if len(in.Password) < minPasswordLen {
		return domain.Invalid("la contraseña debe tener al menos 6 caracteres")
	}
	user, err := uc.userRepo.FindByResetToken(ctx, HashToken(token), uc.now())
	if err != nil {
		return err
	}
	if user == nil {
		return domain.Invalid("token inválido o expirado")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return uc.userRepo.ResetPassword(ctx, user.ID, string(hash))
}

// SweepExpiredTokens limpia los tokens de recuperación vencidos.
func (uc *AuthUseCase) SweepExpiredTokens(ctx context.Context) (int64, error) {
	n, err := uc.userRepo.ClearExpiredResetTokens(ctx, uc.now())
	if err != nil {
		return 0, fmt.Errorf("limpiar tokens vencidos: %w", err)
	}
	return n, nil
}

// HashToken SHA-256 hex del token de recuperación.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func newResetToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", errors.New("no se pudo generar el token de recuperación")
	}
	return hex.EncodeToString(buf), nil
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// ToUserResponse proyecta el usuario sin datos sensibles.
func ToUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
	}
}
