// Package audiotag reads and writes the descriptive tags of audio files and
// reads their audio properties.
//
// A tag is one of three on-disk schemes: ID3v2, Vorbis Comments (FLAC, Ogg
// Vorbis, Opus and Speex) or MP4 item lists. Each scheme has a concrete type
// (ID3v2Tag, VorbisTag, MP4Tag) and all of them implement AudioTag, so most
// code never needs to know which one it holds.
//
// # Reading
//
//	t, err := audiotag.ReadFromPath("song.flac")
//	if err != nil {
//		return err
//	}
//	title, _ := t.Title()
//	fmt.Println(title, t.Properties().Duration())
//
// The scheme is picked from the file content. WithTagType and WithFormat
// give a hint for files that cannot be identified by their magic bytes,
// such as Musepack SV4 to SV6 streams without a ".mpc" extension.
//
// Properties of every supported container (MPEG, ADTS AAC, MP4, FLAC, Ogg
// Vorbis, Opus, Speex, WAV, AIFF, APE, WavPack and Musepack) are available
// through ReadProperties, including formats that carry no tag scheme.
//
// # Editing and writing
//
// Setters change the tag in memory only. WriteToPath rewrites the file
// atomically:
//
//	t.SetTitle("New title")
//	t.SetTrack(3) // total tracks unchanged
//	if err := t.WriteToPath("song.flac", audiotag.WithBackup(".bak")); err != nil {
//		return err
//	}
//
// Remove methods are idempotent. RemoveTrack and RemoveDisc clear the
// number and the total.
//
// # Converting
//
// Convert moves a tag to another scheme through AnyTag, the common field
// set. Fields the target cannot store are dropped. Converting to the
// scheme a tag already has returns the same value.
//
//	mp4Tag := audiotag.ToMP4(t)
//
// # Errors
//
// Failures are typed: UnsupportedFormatError, CorruptedFileError,
// OutOfBoundsError, UnsupportedWriteError and SchemeMismatchError. Use
// errors.As to inspect them.
//
// # Concurrency
//
// A tag has a single owner and no internal locking. ReadMany reads several
// files concurrently and returns them in input order.
package audiotag
