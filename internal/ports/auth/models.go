package auth

// Principal es la identidad autenticada del caller.
// Vive solo mientras dura la sesión; el registro durable de usuario es del backend.
type Principal struct {
	ID    string
	Email string
}

// Credentials son las credenciales presentadas en signup/login.
type Credentials struct {
	Email    string
	Password string
}

// Grant es el resultado de un signup/login exitoso: quién es el caller
// y el token opaco que el backend emitió para operar en su nombre.
type Grant struct {
	Principal   Principal
	AccessToken string
}
