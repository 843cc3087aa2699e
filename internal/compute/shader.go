package compute

// naiveComputeSrc is the GLSL port of the all-pairs force-integration
// kernel. Work-group size matches the dispatch granularity; each invocation
// bounds-checks its global id, applies the kick-drift-kick scheme, and
// writes only its own slot of the destination buffer. The stored
// acceleration carries the dt factor, as on the CPU path.
const naiveComputeSrc = `#version 430

layout(local_size_x = 64) in;

// Ten floats per particle: pos.xyz, vel.xyz, acc.xyz, mass.
layout(std430, binding = 0) readonly buffer Src { float src[]; };
layout(std430, binding = 1) writeonly buffer Dst { float dst[]; };

uniform int numParticles;
uniform float g;
uniform float e;
uniform float dt;

vec3 loadPos(uint i)  { return vec3(src[i*10+0], src[i*10+1], src[i*10+2]); }
vec3 loadVel(uint i)  { return vec3(src[i*10+3], src[i*10+4], src[i*10+5]); }
vec3 loadAcc(uint i)  { return vec3(src[i*10+6], src[i*10+7], src[i*10+8]); }
float loadMass(uint i) { return src[i*10+9]; }

void main() {
    uint gid = gl_GlobalInvocationID.x;
    if (gid >= uint(numParticles)) {
        return;
    }

    vec3 vel = loadVel(gid) + loadAcc(gid) * 0.5;
    vec3 pos = loadPos(gid) + vel * dt;

    vec3 sum = vec3(0.0);
    for (uint j = 0u; j < uint(numParticles); j++) {
        if (j == gid) {
            continue;
        }
        vec3 dr = loadPos(j) - pos;
        float r = length(dr);
        sum += dr * (g * loadMass(j) / (r * r * r + e));
    }

    vec3 acc = sum * dt;
    vel += acc * 0.5;

    dst[gid*10+0] = pos.x; dst[gid*10+1] = pos.y; dst[gid*10+2] = pos.z;
    dst[gid*10+3] = vel.x; dst[gid*10+4] = vel.y; dst[gid*10+5] = vel.z;
    dst[gid*10+6] = acc.x; dst[gid*10+7] = acc.y; dst[gid*10+8] = acc.z;
    dst[gid*10+9] = loadMass(gid);
}
`
