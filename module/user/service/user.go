package service

import (
	"context"
	"time"

	usermodel "PMeet/module/user/model"
	"PMeet/tools/errs"
	jwtlib "PMeet/tools/security"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	goerrors "errors"
)

const bcryptCost = 10

type SignupParams struct {
	Name     string
	Email    string
	Password string
}

// Signup creates an account with a hashed password. Duplicate email is
// ErrUserExists.
func Signup(ctx context.Context, db *mongo.Database, in SignupParams) (*usermodel.User, error) {
	coll := db.Collection(usermodel.User{}.CollectionName())

	err := coll.FindOne(ctx, bson.M{"email": in.Email}).Err()
	if err == nil {
		return nil, errs.ErrUserExists.WithDetail(in.Email)
	}
	if !goerrors.Is(err, mongo.ErrNoDocuments) {
		return nil, errs.ErrInternal.WrapMsg("find user", "email", in.Email)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcryptCost)
	if err != nil {
		return nil, errs.ErrInternal.WrapMsg("hash password")
	}

	now := time.Now()
	user := usermodel.User{
		ID:         uuid.NewString(),
		Name:       in.Name,
		Email:      in.Email,
		Password:   string(hashed),
		CreateTime: now,
		UpdateTime: now,
	}
	if _, err := coll.InsertOne(ctx, user); err != nil {
		return nil, errs.ErrInternal.WrapMsg("insert user", "email", in.Email)
	}
	return &user, nil
}

// Login verifies the password and issues a bearer token for the account.
func Login(ctx context.Context, db *mongo.Database, opts jwtlib.Options, email, password string) (string, *usermodel.User, error) {
	coll := db.Collection(usermodel.User{}.CollectionName())

	var user usermodel.User
	err := coll.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if goerrors.Is(err, mongo.ErrNoDocuments) {
		return "", nil, errs.ErrUserNotFound.WithDetail(email)
	}
	if err != nil {
		return "", nil, errs.ErrInternal.WrapMsg("find user", "email", email)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", nil, errs.ErrPasswordMismatch.Wrap()
	}

	token, _, _, err := jwtlib.Generate(opts, user.ID, nil)
	if err != nil {
		return "", nil, errs.ErrInternal.WrapMsg("sign token")
	}
	return token, &user, nil
}

// HashPassword is exposed for tests and admin tooling.
func HashPassword(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), bcryptCost)
	return string(b), err
}

// CheckPassword reports whether plain matches the stored bcrypt hash.
func CheckPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
