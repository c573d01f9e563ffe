// Package relocate moves or copies classified screenshots into a target
// directory with race-safe name-conflict resolution.
//
// Name conflicts are resolved by appending an incrementing numeric suffix
// before the extension (img.png, img_1.png, img_2.png, ...) up to a fixed
// attempt cap. The existence check and the file action are serialized per
// destination directory, so concurrent relocations can never pick the same
// suffixed name.
//
// XMP sidecar files sharing the image's exact stem follow the image and
// receive the identical suffix decision, preserving the base-name
// relationship. Sidecar failures are reported on the returned Plan and
// logged, but never roll back the already-relocated image and never fail
// the run.
package relocate
