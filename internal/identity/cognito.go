package identity

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
)

// CognitoClient is the subset of the Cognito IDP API the provider
// depends on. *cognitoidentityprovider.Client satisfies it.
type CognitoClient interface {
	AdminCreateUser(ctx context.Context, params *cognitoidentityprovider.AdminCreateUserInput, optFns ...func(*cognitoidentityprovider.Options)) (*cognitoidentityprovider.AdminCreateUserOutput, error)
	AdminSetUserPassword(ctx context.Context, params *cognitoidentityprovider.AdminSetUserPasswordInput, optFns ...func(*cognitoidentityprovider.Options)) (*cognitoidentityprovider.AdminSetUserPasswordOutput, error)
	AdminInitiateAuth(ctx context.Context, params *cognitoidentityprovider.AdminInitiateAuthInput, optFns ...func(*cognitoidentityprovider.Options)) (*cognitoidentityprovider.AdminInitiateAuthOutput, error)
	GetUser(ctx context.Context, params *cognitoidentityprovider.GetUserInput, optFns ...func(*cognitoidentityprovider.Options)) (*cognitoidentityprovider.GetUserOutput, error)
}

// Cognito implements Provider against an AWS Cognito user pool.
type Cognito struct {
	client     CognitoClient
	userPoolID string
	clientID   string
}

// NewCognito creates a Cognito-backed provider.
func NewCognito(client CognitoClient, userPoolID, clientID string) *Cognito {
	return &Cognito{
		client:     client,
		userPoolID: userPoolID,
		clientID:   clientID,
	}
}

// Register creates the account with a suppressed invitation message and
// immediately promotes the password to permanent, so the user can log
// in without a challenge round-trip.
func (c *Cognito) Register(ctx context.Context, email, username, password string) (string, error) {
	created, err := c.client.AdminCreateUser(ctx, &cognitoidentityprovider.AdminCreateUserInput{
		UserPoolId: aws.String(c.userPoolID),
		Username:   aws.String(email),
		UserAttributes: []types.AttributeType{
			{Name: aws.String("email"), Value: aws.String(email)},
			{Name: aws.String("email_verified"), Value: aws.String("true")},
			{Name: aws.String("preferred_username"), Value: aws.String(username)},
		},
		TemporaryPassword: aws.String(password),
		MessageAction:     types.MessageActionTypeSuppress,
	})
	if err != nil {
		var exists *types.UsernameExistsException
		if errors.As(err, &exists) {
			return "", ErrAlreadyRegistered
		}
		return "", fmt.Errorf("create account: %w", err)
	}

	_, err = c.client.AdminSetUserPassword(ctx, &cognitoidentityprovider.AdminSetUserPasswordInput{
		UserPoolId: aws.String(c.userPoolID),
		Username:   aws.String(email),
		Password:   aws.String(password),
		Permanent:  true,
	})
	if err != nil {
		return "", fmt.Errorf("set password: %w", err)
	}

	return aws.ToString(created.User.Username), nil
}

// Authenticate runs the admin no-SRP flow and resolves the caller's
// user id from the issued access token.
func (c *Cognito) Authenticate(ctx context.Context, email, password string) (*Tokens, error) {
	result, err := c.client.AdminInitiateAuth(ctx, &cognitoidentityprovider.AdminInitiateAuthInput{
		UserPoolId: aws.String(c.userPoolID),
		ClientId:   aws.String(c.clientID),
		AuthFlow:   types.AuthFlowTypeAdminNoSrpAuth,
		AuthParameters: map[string]string{
			"USERNAME": email,
			"PASSWORD": password,
		},
	})
	if err != nil {
		var notAuth *types.NotAuthorizedException
		if errors.As(err, &notAuth) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("initiate auth: %w", err)
	}
	if result.AuthenticationResult == nil {
		return nil, ErrInvalidCredentials
	}

	accessToken := aws.ToString(result.AuthenticationResult.AccessToken)
	userID, err := c.Verify(ctx, accessToken)
	if err != nil {
		return nil, err
	}

	return &Tokens{
		AccessToken: accessToken,
		IDToken:     aws.ToString(result.AuthenticationResult.IdToken),
		UserID:      userID,
		TokenType:   "Bearer",
	}, nil
}

// Verify resolves an access token to its user id via the provider.
func (c *Cognito) Verify(ctx context.Context, accessToken string) (string, error) {
	user, err := c.client.GetUser(ctx, &cognitoidentityprovider.GetUserInput{
		AccessToken: aws.String(accessToken),
	})
	if err != nil {
		var notAuth *types.NotAuthorizedException
		if errors.As(err, &notAuth) {
			return "", ErrInvalidToken
		}
		return "", fmt.Errorf("get user: %w", err)
	}
	return aws.ToString(user.Username), nil
}
