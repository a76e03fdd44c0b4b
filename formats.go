package audiotag

// Properties parsers register themselves with the registry on import.
import (
	_ "github.com/simonhull/audiotag/internal/aac"
	_ "github.com/simonhull/audiotag/internal/ape"
	_ "github.com/simonhull/audiotag/internal/flac"
	_ "github.com/simonhull/audiotag/internal/iff"
	_ "github.com/simonhull/audiotag/internal/mp4"
	_ "github.com/simonhull/audiotag/internal/mpeg"
	_ "github.com/simonhull/audiotag/internal/musepack"
	_ "github.com/simonhull/audiotag/internal/ogg"
	_ "github.com/simonhull/audiotag/internal/wavpack"
)
