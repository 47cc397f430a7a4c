package config

import "github.com/spf13/viper"

// Auth auth config struct
type Auth struct {
	JWT *JWT
}

// JWT jwt config struct
type JWT struct {
	Secret string
	// Expire is the access token lifetime in seconds. Zero means the
	// default of one hour.
	Expire int
}

// getAuth returns the auth config.
func getAuth(v *viper.Viper) *Auth {
	return &Auth{
		JWT: getJWT(v),
	}
}

// getJWT returns the jwt config.
func getJWT(v *viper.Viper) *JWT {
	return &JWT{
		Secret: v.GetString("auth.jwt.secret"),
		Expire: v.GetInt("auth.jwt.expire"),
	}
}
