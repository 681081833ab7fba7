package cli

import (
	"io"

	"stanctl/internal/config"
	"stanctl/internal/logx"
	"stanctl/internal/paths"
	"stanctl/pkg/cmdstan"
)

// session bundles the state every resolver-backed command starts from: the
// application paths, the loaded configuration, a resolver wired to both, and
// the session log file. Close releases the log file.
type session struct {
	paths    paths.AppPaths
	cfg      config.Config
	resolver *cmdstan.Resolver
	logger   logx.Printer
	closer   io.Closer
}

func newSession() (*session, error) {
	pp, err := paths.Resolve(installDir)
	if err != nil {
		return nil, err
	}
	if err := pp.EnsureLayout(); err != nil {
		return nil, err
	}

	cfg, err := config.Load(pp.ConfigFile)
	if err != nil {
		return nil, err
	}

	fileLogger, closer, err := logx.New(pp)
	if err != nil {
		return nil, err
	}

	logger := logx.Tee(fileLogger)
	if verbose {
		logger = logx.Tee(fileLogger, logx.Stderr(true))
	}

	resolver, err := cmdstan.New(cmdstan.Options{
		Root:       pp.Root,
		Path:       cfg.Path,
		PathSource: cmdstan.SourceConfig,
		Ranking:    cfg.RankingMode(),
		Logger:     logger,
	})
	if err != nil {
		closer.Close()
		return nil, err
	}
	resolver.SetScratchDir(pp.ScratchDir)

	return &session{
		paths:    pp,
		cfg:      cfg,
		resolver: resolver,
		logger:   logger,
		closer:   closer,
	}, nil
}

func (s *session) Close() error {
	return s.closer.Close()
}
