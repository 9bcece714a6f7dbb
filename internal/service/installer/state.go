package installer

type InstallState struct {
	EnvVars map[string]string
}

func NewInstallState() *InstallState {
	return &InstallState{
		EnvVars: make(map[string]string),
	}
}

func (s *InstallState) Get(key string) string {
	return s.EnvVars[key]
}

func (s *InstallState) Set(key, value string) {
	if value == "" {
		delete(s.EnvVars, key)
		return
	}
	s.EnvVars[key] = value
}
