package formats

import "github.com/DjDeveloperr/ytdl-core/types"

// itagTable carries per-itag defaults used to backfill fields the player
// response omits. Shipped values always win; the table only fills gaps.
// Live (HLS) itags 91-96 ship without bitrate fields most of the time.
var itagTable = map[int]types.Format{
	5:   {MimeType: `video/flv; codecs="Sorenson H.283, mp3"`, QualityLabel: "240p", Bitrate: 250000, AudioBitrate: 64},
	6:   {MimeType: `video/flv; codecs="Sorenson H.263, mp3"`, QualityLabel: "270p", Bitrate: 800000, AudioBitrate: 64},
	17:  {MimeType: `video/3gp; codecs="MPEG-4 Visual, aac"`, QualityLabel: "144p", Bitrate: 50000, AudioBitrate: 24},
	18:  {MimeType: `video/mp4; codecs="H.264, aac"`, QualityLabel: "360p", Bitrate: 500000, AudioBitrate: 96},
	22:  {MimeType: `video/mp4; codecs="H.264, aac"`, QualityLabel: "720p", Bitrate: 2000000, AudioBitrate: 192},
	34:  {MimeType: `video/flv; codecs="H.264, aac"`, QualityLabel: "360p", Bitrate: 500000, AudioBitrate: 128},
	35:  {MimeType: `video/flv; codecs="H.264, aac"`, QualityLabel: "480p", Bitrate: 1000000, AudioBitrate: 128},
	36:  {MimeType: `video/3gp; codecs="MPEG-4 Visual, aac"`, QualityLabel: "240p", Bitrate: 175000, AudioBitrate: 32},
	37:  {MimeType: `video/mp4; codecs="H.264, aac"`, QualityLabel: "1080p", Bitrate: 3000000, AudioBitrate: 192},
	38:  {MimeType: `video/mp4; codecs="H.264, aac"`, QualityLabel: "3072p", Bitrate: 5000000, AudioBitrate: 192},
	43:  {MimeType: `video/webm; codecs="VP8, vorbis"`, QualityLabel: "360p", Bitrate: 500000, AudioBitrate: 128},
	44:  {MimeType: `video/webm; codecs="VP8, vorbis"`, QualityLabel: "480p", Bitrate: 1000000, AudioBitrate: 128},
	45:  {MimeType: `video/webm; codecs="VP8, vorbis"`, QualityLabel: "720p", Bitrate: 2000000, AudioBitrate: 192},
	46:  {MimeType: `video/webm; codecs="VP8, vorbis"`, QualityLabel: "1080p", AudioBitrate: 192},
	91:  {MimeType: `video/ts; codecs="H.264, aac"`, QualityLabel: "144p", Bitrate: 100000, AudioBitrate: 48},
	92:  {MimeType: `video/ts; codecs="H.264, aac"`, QualityLabel: "240p", Bitrate: 300000, AudioBitrate: 48},
	93:  {MimeType: `video/ts; codecs="H.264, aac"`, QualityLabel: "360p", Bitrate: 1000000, AudioBitrate: 128},
	94:  {MimeType: `video/ts; codecs="H.264, aac"`, QualityLabel: "480p", Bitrate: 1250000, AudioBitrate: 128},
	95:  {MimeType: `video/ts; codecs="H.264, aac"`, QualityLabel: "720p", Bitrate: 3000000, AudioBitrate: 256},
	96:  {MimeType: `video/ts; codecs="H.264, aac"`, QualityLabel: "1080p", Bitrate: 6000000, AudioBitrate: 256},
	133: {MimeType: `video/mp4; codecs="H.264"`, QualityLabel: "240p", Bitrate: 300000},
	134: {MimeType: `video/mp4; codecs="H.264"`, QualityLabel: "360p", Bitrate: 400000},
	135: {MimeType: `video/mp4; codecs="H.264"`, QualityLabel: "480p", Bitrate: 1000000},
	136: {MimeType: `video/mp4; codecs="H.264"`, QualityLabel: "720p", Bitrate: 1500000},
	137: {MimeType: `video/mp4; codecs="H.264"`, QualityLabel: "1080p", Bitrate: 3000000},
	138: {MimeType: `video/mp4; codecs="H.264"`, QualityLabel: "4320p", Bitrate: 13500000},
	139: {MimeType: `audio/mp4; codecs="aac"`, AudioBitrate: 48},
	140: {MimeType: `audio/m4a; codecs="aac"`, AudioBitrate: 128},
	141: {MimeType: `audio/mp4; codecs="aac"`, AudioBitrate: 256},
	160: {MimeType: `video/mp4; codecs="H.264"`, QualityLabel: "144p", Bitrate: 100000},
	171: {MimeType: `audio/webm; codecs="vorbis"`, AudioBitrate: 128},
	242: {MimeType: `video/webm; codecs="VP9"`, QualityLabel: "240p", Bitrate: 150000},
	243: {MimeType: `video/webm; codecs="VP9"`, QualityLabel: "360p", Bitrate: 250000},
	244: {MimeType: `video/webm; codecs="VP9"`, QualityLabel: "480p", Bitrate: 500000},
	247: {MimeType: `video/webm; codecs="VP9"`, QualityLabel: "720p", Bitrate: 700000},
	248: {MimeType: `video/webm; codecs="VP9"`, QualityLabel: "1080p", Bitrate: 1500000},
	249: {MimeType: `audio/webm; codecs="opus"`, AudioBitrate: 48},
	250: {MimeType: `audio/webm; codecs="opus"`, AudioBitrate: 64},
	251: {MimeType: `audio/webm; codecs="opus"`, AudioBitrate: 160},
	264: {MimeType: `video/mp4; codecs="H.264"`, QualityLabel: "1440p", Bitrate: 4000000},
	266: {MimeType: `video/mp4; codecs="H.264"`, QualityLabel: "2160p", Bitrate: 12500000},
	271: {MimeType: `video/webm; codecs="VP9"`, QualityLabel: "1440p", Bitrate: 9000000},
	272: {MimeType: `video/webm; codecs="VP9"`, QualityLabel: "4320p", Bitrate: 20000000},
	298: {MimeType: `video/mp4; codecs="H.264"`, QualityLabel: "720p60", Bitrate: 3000000},
	299: {MimeType: `video/mp4; codecs="H.264"`, QualityLabel: "1080p60", Bitrate: 5500000},
	302: {MimeType: `video/webm; codecs="VP9"`, QualityLabel: "720p60", Bitrate: 2500000},
	303: {MimeType: `video/webm; codecs="VP9"`, QualityLabel: "1080p60", Bitrate: 5000000},
	308: {MimeType: `video/webm; codecs="VP9"`, QualityLabel: "1440p60", Bitrate: 10000000},
	313: {MimeType: `video/webm; codecs="VP9"`, QualityLabel: "2160p", Bitrate: 13000000},
	315: {MimeType: `video/webm; codecs="VP9"`, QualityLabel: "2160p60", Bitrate: 20000000},
}
